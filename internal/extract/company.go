package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

// recentBatchWindowYears bounds how far back a batch can be and still count
// as evidence that a company is active when no StatusLine or Status field is
// present. Six years covers roughly a dozen YC batches, long enough that a
// company still listed without an explicit status is presumed ongoing.
const recentBatchWindowYears = 6

// CatalogHost is the accelerator directory's own domain; links elsewhere are
// candidate homepages.
const CatalogHost = "www.ycombinator.com"

// Company reads Header, Description, and Meta sections and derives a single
// companies row. Missing evidence nulls the corresponding field rather than
// failing the page.
func Company(slug, sourceURL string, sections map[model.SectionKind]model.Section) model.Company {
	c := model.Company{Slug: slug, SourceURL: sourceURL}

	header := sections[model.SectionHeader]
	desc := sections[model.SectionDescription]
	meta := sections[model.SectionMeta]

	for _, b := range header.Blocks {
		if b.Kind == model.BlockHeading && b.Level == 1 && c.Name == "" {
			c.Name = b.Text
		}
	}

	c.Tagline = firstTagline(desc)

	season, year, ok := firstBatchLink(header.Blocks)
	if !ok {
		season, year, ok = firstBatchLink(desc.Blocks)
	}
	if ok {
		c.BatchSeason, c.BatchYear = season, year
	}

	status := firstStatusLine(header.Blocks)
	if status == model.StatusUnknown {
		status = firstStatusLine(desc.Blocks)
	}

	for _, b := range meta.Blocks {
		if b.Kind != model.BlockMetaField {
			continue
		}
		switch b.Key {
		case "Founded":
			c.FoundedYear = atoiOr(b.Value, 0)
		case "Batch":
			if !ok {
				if s, y, ok2 := parseBatchMetaValue(b.Value); ok2 {
					c.BatchSeason, c.BatchYear = s, y
					ok = true
				}
			}
		case "Team Size":
			c.TeamSize = atoiOr(b.Value, 0)
		case "Status":
			if status == model.StatusUnknown {
				status = model.ParseCompanyStatus(b.Value)
			}
		case "Location":
			c.Location = b.Value
		case "Group Partner":
			c.Partner = b.Value
		}
	}
	if status == model.StatusUnknown && ok && isRecentBatch(c.BatchYear) {
		status = model.StatusActive
	}
	c.Status = status

	c.Homepage = firstNonCatalogLink(header.Blocks)

	if jobs, ok := sections[model.SectionJobs]; ok && len(jobs.Blocks) > 0 {
		c.IsHiring = true
	}

	return c
}

func firstTagline(desc model.Section) string {
	for _, b := range desc.Blocks {
		if b.Kind == model.BlockHeading && b.Level == 3 {
			return b.Text
		}
	}
	for _, b := range desc.Blocks {
		if b.Kind == model.BlockText {
			return b.Text
		}
	}
	return ""
}

func firstBatchLink(blocks []model.Block) (season string, year int, ok bool) {
	for _, b := range blocks {
		if b.Kind == model.BlockBatchLink {
			return b.LinkPayload.Season, b.LinkPayload.Year, true
		}
	}
	return "", 0, false
}

func isRecentBatch(year int) bool {
	return year > 0 && time.Now().Year()-year <= recentBatchWindowYears
}

func firstStatusLine(blocks []model.Block) model.CompanyStatus {
	for _, b := range blocks {
		if b.Kind == model.BlockStatusLine {
			return b.Status
		}
	}
	return model.StatusUnknown
}

func firstNonCatalogLink(blocks []model.Block) string {
	for _, b := range blocks {
		if b.Kind != model.BlockLink {
			continue
		}
		if Host(b.LinkPayload.URL) == "" || Host(b.LinkPayload.URL) == CatalogHost {
			continue
		}
		return b.LinkPayload.URL
	}
	return ""
}

func parseBatchMetaValue(v string) (season string, year int, ok bool) {
	parts := strings.Fields(v)
	if len(parts) != 2 {
		return "", 0, false
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, false
	}
	return parts[0], y, true
}

func atoiOr(s string, fallback int) int {
	digits := strings.Builder{}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return fallback
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return fallback
	}
	return n
}

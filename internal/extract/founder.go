package extract

import (
	"strings"

	"github.com/google/uuid"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

// stopWords rejects Person candidates that are really section labels or
// leaked tag text, not a person's name.
var stopWords = map[string]bool{
	"Founders":     true,
	"Founder":      true,
	"Team":         true,
	"Co-Founders":  true,
	"Leadership":   true,
}

// Founders walks the Founders section's Person blocks, classifies each
// attached link by host, and collapses duplicate occurrences of the same
// (slug, name) pair within the page, merging non-null fields so a later
// occurrence only fills in what an earlier one left blank.
func Founders(slug string, founders model.Section) []model.Founder {
	order := make([]string, 0)
	bySlugName := make(map[string]*model.Founder)

	for _, b := range founders.Blocks {
		if b.Kind != model.BlockPerson {
			continue
		}
		name := normalizeName(b.PersonPayload.Name)
		if name == "" || stopWords[name] {
			continue
		}

		f, seen := bySlugName[name]
		if !seen {
			f = &model.Founder{ID: uuid.NewString(), Slug: slug, Name: name}
			bySlugName[name] = f
			order = append(order, name)
		}

		if f.Title == "" {
			f.Title = b.PersonPayload.Title
		}
		if f.Bio == "" {
			f.Bio = b.PersonPayload.Bio
		}
		for _, l := range b.PersonPayload.Links {
			classifyFounderLink(f, l.URL)
		}
	}

	out := make([]model.Founder, 0, len(order))
	for _, name := range order {
		out = append(out, *bySlugName[name])
	}
	return out
}

func classifyFounderLink(f *model.Founder, rawURL string) {
	if addr, ok := IsMailto(rawURL); ok {
		if f.Email == "" {
			f.Email = addr
		}
		return
	}
	switch Host(rawURL) {
	case "linkedin.com", "www.linkedin.com":
		if f.LinkedIn == "" {
			f.LinkedIn = rawURL
		}
	case "twitter.com", "www.twitter.com", "x.com", "www.x.com":
		if f.Twitter == "" {
			f.Twitter = rawURL
		}
	case "github.com", "www.github.com":
		if f.GitHub == "" {
			f.GitHub = rawURL
		}
	}
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package extract

import (
	"strings"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

var socialHosts = map[string]bool{
	"linkedin.com": true, "www.linkedin.com": true,
	"twitter.com": true, "www.twitter.com": true,
	"x.com": true, "www.x.com": true,
	"facebook.com": true, "www.facebook.com": true,
	"github.com": true, "www.github.com": true,
	"youtube.com": true, "www.youtube.com": true,
}

var founderSocialHosts = map[string]bool{
	"linkedin.com": true, "www.linkedin.com": true,
	"twitter.com": true, "www.twitter.com": true,
	"x.com": true, "www.x.com": true,
	"github.com": true, "www.github.com": true,
}

var mediaHosts = map[string]bool{
	"techcrunch.com": true, "forbes.com": true, "bloomberg.com": true,
	"reuters.com": true, "wsj.com": true, "nytimes.com": true,
	"businessinsider.com": true, "axios.com": true, "theverge.com": true,
}

// Links sweeps every section for absolute Link blocks, including links
// carried on Person blocks, normalizes and classifies each by host, and
// collapses to one row per (slug, url). founderIDByName is the lookup built
// by Founders, used to attribute a Person's own links back to their
// founder_id when the link itself is a recognized social host.
func Links(slug string, sections []model.Section, founderIDByName map[string]string) []model.CompanyLink {
	seen := make(map[string]bool)
	var out []model.CompanyLink

	emit := func(rawURL, text, founderID string) {
		if !isAbsolute(rawURL) {
			return
		}
		norm := NormalizeURL(rawURL)
		if seen[norm] {
			return
		}
		seen[norm] = true

		host := Host(norm)
		out = append(out, model.CompanyLink{
			Slug:           slug,
			URL:            norm,
			AnchorText:     text,
			Domain:         host,
			Classification: classifyLink(host),
			FounderID:      founderID,
		})
	}

	for _, s := range sections {
		for _, b := range s.Blocks {
			switch b.Kind {
			case model.BlockLink:
				emit(b.LinkPayload.URL, b.LinkPayload.Text, "")
			case model.BlockPerson:
				name := normalizeName(b.PersonPayload.Name)
				for _, l := range b.PersonPayload.Links {
					founderID := ""
					if founderSocialHosts[Host(l.URL)] {
						founderID = founderIDByName[name]
					}
					emit(l.URL, l.Text, founderID)
				}
			}
		}
	}
	return out
}

func classifyLink(host string) model.LinkClass {
	switch {
	case host == CatalogHost:
		return model.LinkCatalogInternal
	case socialHosts[host]:
		return model.LinkSocial
	case mediaHosts[host]:
		return model.LinkMedia
	default:
		return model.LinkOther
	}
}

func isAbsolute(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

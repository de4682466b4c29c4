// Package extract implements C3: one routine per section kind, mapping
// clustered blocks into the domain records persisted by the store.
package extract

import (
	"net/url"
	"regexp"
	"strings"
)

var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"ref":          true,
	"source":       true,
}

var slugSanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)

var jobsPathRe = regexp.MustCompile(`/jobs/`)

// SlugFromURL derives the canonical company slug from a page URL: the final
// path segment, lowercased and hyphenated.
func SlugFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	path := pageURL
	if err == nil {
		path = u.Path
	}
	path = strings.TrimRight(path, "/")
	seg := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		seg = path[idx+1:]
	}
	seg = strings.ToLower(seg)
	seg = slugSanitizeRe.ReplaceAllString(seg, "-")
	return strings.Trim(seg, "-")
}

// NormalizeURL strips tracking query parameters, lowercases the host, and
// strips a trailing slash from the path, per the Links extractor's policy.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if trackingParams[strings.ToLower(k)] {
				q.Del(k)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Host returns the lowercased hostname of a URL, or "" if unparseable.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// IsMailto reports whether raw is a mailto: link and returns the address.
func IsMailto(raw string) (string, bool) {
	const prefix = "mailto:"
	if strings.HasPrefix(strings.ToLower(raw), prefix) {
		return raw[len(prefix):], true
	}
	return "", false
}

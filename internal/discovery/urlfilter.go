package discovery

import (
	"net/url"
	"regexp"
	"strings"
)

var companyPathRe = regexp.MustCompile(`^/companies/([a-z0-9][a-z0-9-]*)$`)

// reservedSlugs are path segments under /companies/ that are catalog
// filter views, not a company page.
var reservedSlugs = map[string]bool{
	"industry": true,
	"batch":    true,
}

// IsCompanyURL reports whether raw is a single company's directory page,
// excluding industry-tag pages, batch-filter pages, and top-level
// jobs/launches listing pages.
func IsCompanyURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	path := strings.TrimRight(u.Path, "/")

	m := companyPathRe.FindStringSubmatch(path)
	if m == nil {
		return false
	}
	if reservedSlugs[m[1]] {
		return false
	}
	if u.Query().Has("batch") || u.Query().Has("industry") {
		return false
	}
	return true
}

// Package lexer implements the block lexer (C1): it classifies every
// non-empty line of a rendered catalog page as one typed model.Block.
//
// All regular expressions are compiled once at package init and shared
// read-only across every call to Lex, so parse workers never recompile a
// matcher per page.
package lexer

import "regexp"

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

	metaFieldRe = regexp.MustCompile(`^([A-Z][A-Za-z ]{1,20}):\s*(.+)$`)

	linkRe = regexp.MustCompile(`^\[([^\]]*)\]\(([^)]+)\)$`)

	// tagPathRe recognizes the catalog's industry-tag links, of the shape
	// ".../companies/industry/<tag>".
	tagPathRe = regexp.MustCompile(`/companies/industry/([a-z0-9][a-z0-9-]*)`)

	// batchQueryRe and batchPathRe recognize the catalog's batch-filter
	// links, of the shape ".../companies?batch=<Season>%20<Year>" and
	// ".../companies/batch/<season>-<year>" respectively.
	batchQueryRe = regexp.MustCompile(`[?&]batch=([A-Za-z]+)[+%20 ]+(\d{4})`)
	batchPathRe  = regexp.MustCompile(`/companies/batch/([a-z]+)-(\d{4})`)

	monthNames = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}

	dateLineRe = regexp.MustCompile(
		`^(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})$`)

	jobsPathRe = regexp.MustCompile(`/jobs/`)
)

// metaFieldKeys is the fixed vocabulary recognized for MetaField blocks.
var metaFieldKeys = map[string]bool{
	"Founded":       true,
	"Batch":         true,
	"Team Size":     true,
	"Status":        true,
	"Location":      true,
	"Group Partner": true,
}

// statusKeywords is the exact-match vocabulary for StatusLine blocks.
var statusKeywords = map[string]bool{
	"Active":   true,
	"Inactive": true,
	"Acquired": true,
	"Public":   true,
}

// roleKeywords flags a short lookahead line as a Person's title.
var roleKeywords = []string{
	"Co-Founder", "Founder", "CEO", "CTO", "COO", "CFO",
	"President", "Chairman", "Engineer", "Designer", "Head of",
}

const (
	maxPersonLookahead = 4
	maxPersonNameWords = 6
	maxPersonBioLen    = 240
	maxRoleLineLen     = 60
)

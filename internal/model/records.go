package model

import "time"

// PageState is the queue state of a pages row. It is monotonic along
// Pending -> Fetched -> Parsed, with Failed reachable from any non-terminal
// state and not onward.
type PageState string

const (
	PagePending PageState = "pending"
	PageFetched PageState = "fetched"
	PageParsed  PageState = "parsed"
	PageFailed  PageState = "failed"
)

// Page is a row of the pages table — the URL queue itself.
type Page struct {
	URL          string
	State        PageState
	FirstSeen    time.Time
	LastAttempt  time.Time
	Attempts     int
	LastError    string
}

// PageData is a row of page_data: the immutable raw fetch result for a URL.
type PageData struct {
	URL        string
	Markdown   string
	HTTPStatus int
	LatencyMS  int64
	FetchedAt  time.Time
}

// CompanySection is a row of company_sections: the clustered intermediate
// representation, persisted so extraction can be replayed without re-fetch.
// JSONBlob holds the marshaled []Block for the section.
type CompanySection struct {
	URL         string
	SectionKind SectionKind
	Ord         int
	JSONBlob    string
}

// LinkClass is the four-bucket company_links.classification scheme.
type LinkClass string

const (
	LinkCatalogInternal LinkClass = "catalog-internal"
	LinkSocial          LinkClass = "social"
	LinkMedia           LinkClass = "media"
	LinkOther           LinkClass = "other"
)

// Company is a row of the companies table, keyed by slug.
type Company struct {
	Slug        string
	Name        string
	Tagline     string
	BatchSeason string
	BatchYear   int
	Status      CompanyStatus
	Location    string
	FoundedYear int
	TeamSize    int
	Partner     string
	Homepage    string
	IsHiring    bool
	SourceURL   string
}

// Founder is a row of the founders table, keyed by (slug, name). ID is a
// synthetic identifier assigned for FK use by company_links.
type Founder struct {
	ID       string
	Slug     string
	Name     string
	Title    string
	Bio      string
	LinkedIn string
	Twitter  string
	GitHub   string
	Email    string
}

// NewsItem is a row of the news table, keyed by (slug, url).
type NewsItem struct {
	Slug          string
	URL           string
	Title         string
	PublishedDate *time.Time
}

// Job is a row of the company_jobs table, keyed by (slug, url).
type Job struct {
	Slug       string
	URL        string
	Title      string
	Location   string
	Experience string
}

// CompanyLink is a row of the company_links table, keyed by (slug, url).
type CompanyLink struct {
	Slug           string
	URL            string
	AnchorText     string
	Domain         string
	Classification LinkClass
	FounderID      string // empty means null
}

// MeetingLink is a row of the meeting_links table, keyed by (slug, url).
type MeetingLink struct {
	Slug     string
	URL      string
	Platform string
}

// PageRecords is the in-memory aggregate the extractors append to while
// walking a page's sections. One instance is built per page, then flushed to
// the store as a single logical transaction.
type PageRecords struct {
	Company  Company
	Founders []Founder
	News     []NewsItem
	Jobs     []Job
	Links    []CompanyLink
	Meetings []MeetingLink
}

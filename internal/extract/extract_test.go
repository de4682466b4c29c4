package extract

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directorycat/catalog-pipeline/internal/lexer"
	"github.com/directorycat/catalog-pipeline/internal/model"
	"github.com/directorycat/catalog-pipeline/internal/section"
)

const stripeSourceURL = "https://www.ycombinator.com/companies/stripe"

func loadStripeFixture(t *testing.T) model.PageRecords {
	t.Helper()
	md, err := os.ReadFile("../../testdata/stripe.md")
	require.NoError(t, err)

	blocks := lexer.Lex(string(md))
	sections := section.Cluster(blocks)
	return Page(stripeSourceURL, sections)
}

// TestStripeFixture_S1 exercises the full C1∘C2∘C3 pipeline over the S1
// scenario fixture and checks every expectation the scenario specifies.
func TestStripeFixture_S1(t *testing.T) {
	rec := loadStripeFixture(t)

	c := rec.Company
	assert.Equal(t, "stripe", c.Slug)
	assert.Equal(t, "Stripe", c.Name)
	assert.Equal(t, "Summer", c.BatchSeason)
	assert.Equal(t, 2009, c.BatchYear)
	assert.Equal(t, model.StatusActive, c.Status)
	assert.Equal(t, 7000, c.TeamSize)
	assert.Equal(t, "San Francisco", c.Location)
	assert.Equal(t, "http://stripe.com", c.Homepage)
	assert.True(t, c.IsHiring)

	require.Len(t, rec.Founders, 2)
	byName := make(map[string]model.Founder)
	for _, f := range rec.Founders {
		byName[f.Name] = f
	}
	patrick, ok := byName["Patrick Collison"]
	require.True(t, ok)
	assert.Equal(t, "Founder/CEO", patrick.Title)
	assert.NotEmpty(t, patrick.LinkedIn)
	assert.NotEmpty(t, patrick.Twitter)

	john, ok := byName["John Collison"]
	require.True(t, ok)
	assert.Equal(t, "Founder/President", john.Title)
	assert.NotEmpty(t, john.LinkedIn)
	assert.NotEmpty(t, john.Twitter)

	require.Len(t, rec.News, 5)
	gotDates := make([]string, 0, 5)
	for _, n := range rec.News {
		require.NotNil(t, n.PublishedDate)
		gotDates = append(gotDates, n.PublishedDate.Format("2006-01-02"))
	}
	assert.ElementsMatch(t,
		[]string{"2023-05-09", "2023-05-07", "2023-03-15", "2023-01-23", "2022-05-26"},
		gotDates)

	require.Len(t, rec.Jobs, 3)
	for _, j := range rec.Jobs {
		assert.NotContains(t, []string{"View all jobs", "Apply Now"}, j.Title)
	}

	assert.GreaterOrEqual(t, len(rec.Links), 7)
	assert.Empty(t, rec.Meetings)
}

// TestStripeFixture_S6 verifies duplicate-person collapsing: the fixture
// repeats each founder once bare and once with a title, and the extractor
// must emit exactly one founder row per name. That the later title is
// retained is checked in TestStripeFixture_S1.
func TestStripeFixture_S6(t *testing.T) {
	rec := loadStripeFixture(t)

	names := make(map[string]int)
	for _, f := range rec.Founders {
		names[f.Name]++
	}
	for name, count := range names {
		assert.Equal(t, 1, count, "founder %q should be collapsed to a single row", name)
	}
}

func TestCompany_S5_MissingLocation(t *testing.T) {
	md := "# Acme\n\n### We build things\n\nFounded: 2020\nBatch: Winter 2020\nTeam Size: 5\n"
	blocks := lexer.Lex(md)
	sections := section.Cluster(blocks)
	rec := Page("https://www.ycombinator.com/companies/acme", sections)

	assert.Equal(t, "", rec.Company.Location)
	assert.Equal(t, "acme", rec.Company.Slug)
}

func TestFounders_DedupLaw_NoDuplicateNamesAfterNormalization(t *testing.T) {
	md := `# Acme

## Founders

Jane   Doe

[](https://www.linkedin.com/in/janedoe)

Jane Doe

Founder/CTO
`
	blocks := lexer.Lex(md)
	sections := section.Cluster(blocks)
	rec := Page("https://www.ycombinator.com/companies/acme", sections)

	require.Len(t, rec.Founders, 1)
	assert.Equal(t, "Jane Doe", rec.Founders[0].Name)
	assert.Equal(t, "Founder/CTO", rec.Founders[0].Title)
}

func TestFounders_RejectsStopWordNames(t *testing.T) {
	md := "# Acme\n\n## Founders\n\nFounders\n\nFounder\n"
	blocks := lexer.Lex(md)
	sections := section.Cluster(blocks)
	rec := Page("https://www.ycombinator.com/companies/acme", sections)

	assert.Empty(t, rec.Founders)
}

func TestLinks_NormalizationAndDedup(t *testing.T) {
	md := "# Acme\n\n[Twitter](https://Twitter.com/acme/?utm_source=yc)\n\n[Twitter again](https://twitter.com/acme)\n"
	blocks := lexer.Lex(md)
	sections := section.Cluster(blocks)
	rec := Page("https://www.ycombinator.com/companies/acme", sections)

	require.Len(t, rec.Links, 1)
	assert.Equal(t, "twitter.com", rec.Links[0].Domain)
	assert.Equal(t, model.LinkSocial, rec.Links[0].Classification)
}

func TestMeetings_RecognizesSchedulingHosts(t *testing.T) {
	md := "# Acme\n\n[Book time](https://calendly.com/acme/intro)\n"
	blocks := lexer.Lex(md)
	sections := section.Cluster(blocks)
	rec := Page("https://www.ycombinator.com/companies/acme", sections)

	require.Len(t, rec.Meetings, 1)
	assert.Equal(t, "Calendly", rec.Meetings[0].Platform)
}

func TestSlugFromURL(t *testing.T) {
	cases := map[string]string{
		"https://www.ycombinator.com/companies/stripe":  "stripe",
		"https://www.ycombinator.com/companies/stripe/": "stripe",
		"https://www.ycombinator.com/companies/Some_Co":  "some-co",
	}
	for in, want := range cases {
		assert.Equal(t, want, SlugFromURL(in), in)
	}
}

package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

func TestLex_Totality(t *testing.T) {
	md := strings.Join([]string{
		"# Stripe",
		"",
		"Founded: 2009",
		"Batch: Summer 2009",
		"Team Size: 7000",
		"Active",
		"May 9, 2023",
		"[stripe.com](http://stripe.com)",
		"[](https://www.ycombinator.com/companies/industry/fintech)",
		"[S09](https://www.ycombinator.com/companies/batch/summer-2009)",
		"Patrick Collison",
		"some unrecognized trailing prose that fits no other rule",
	}, "\n")

	blocks := Lex(md)

	nonEmpty := 0
	for _, line := range strings.Split(md, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}
	// Totality: every non-empty line contributes to exactly one block,
	// though a Person block may consume more than one line. No line here
	// forms a Person, so each non-empty line yields its own block.
	assert.NotEmpty(t, blocks)
	assert.Equal(t, nonEmpty, len(blocks))
	for _, b := range blocks {
		assert.GreaterOrEqual(t, int(b.Kind), int(model.BlockHeading))
		assert.LessOrEqual(t, int(b.Kind), int(model.BlockText))
	}
}

func TestLex_Heading(t *testing.T) {
	blocks := Lex("### Economic infrastructure for the internet")
	require.Len(t, blocks, 1)
	assert.Equal(t, model.BlockHeading, blocks[0].Kind)
	assert.Equal(t, 3, blocks[0].Level)
	assert.Equal(t, "Economic infrastructure for the internet", blocks[0].Text)
}

func TestLex_MetaField_KnownVsUnknownKey(t *testing.T) {
	blocks := Lex("Founded: 2009\nRandom Field: nope")
	require.Len(t, blocks, 2)
	assert.Equal(t, model.BlockMetaField, blocks[0].Kind)
	assert.Equal(t, "Founded", blocks[0].Key)
	assert.Equal(t, "2009", blocks[0].Value)
	// Unknown key falls through to Text.
	assert.Equal(t, model.BlockText, blocks[1].Kind)
}

func TestLex_StatusLine(t *testing.T) {
	for _, kw := range []string{"Active", "Inactive", "Acquired", "Public"} {
		blocks := Lex(kw)
		require.Len(t, blocks, 1)
		assert.Equal(t, model.BlockStatusLine, blocks[0].Kind)
		assert.Equal(t, kw, blocks[0].Status.String())
	}
}

func TestLex_DateLine(t *testing.T) {
	blocks := Lex("May 9, 2023")
	require.Len(t, blocks, 1)
	assert.Equal(t, model.BlockDateLine, blocks[0].Kind)
	assert.Equal(t, "2023-05-09", blocks[0].ISODate)
}

func TestLex_Link_BareVsNamed(t *testing.T) {
	blocks := Lex("[Stripe Homepage](http://stripe.com)\n[](https://x.com/patrickc)")
	require.Len(t, blocks, 2)
	assert.Equal(t, model.BlockLink, blocks[0].Kind)
	assert.False(t, blocks[0].LinkPayload.IsBare)
	assert.Equal(t, model.BlockLink, blocks[1].Kind)
	assert.True(t, blocks[1].LinkPayload.IsBare)
}

func TestLex_TagLink(t *testing.T) {
	blocks := Lex("[Fintech](https://www.ycombinator.com/companies/industry/fintech)")
	require.Len(t, blocks, 1)
	assert.Equal(t, model.BlockTagLink, blocks[0].Kind)
	assert.Equal(t, "fintech", blocks[0].LinkPayload.Tag)
}

func TestLex_BatchLink_PathAndQueryForms(t *testing.T) {
	pathForm := Lex("[S09](https://www.ycombinator.com/companies/batch/summer-2009)")
	require.Len(t, pathForm, 1)
	assert.Equal(t, model.BlockBatchLink, pathForm[0].Kind)
	assert.Equal(t, "Summer", pathForm[0].LinkPayload.Season)
	assert.Equal(t, 2009, pathForm[0].LinkPayload.Year)

	queryForm := Lex("[Companies](https://www.ycombinator.com/companies?batch=Winter+2021)")
	require.Len(t, queryForm, 1)
	assert.Equal(t, model.BlockBatchLink, queryForm[0].Kind)
	assert.Equal(t, "Winter", queryForm[0].LinkPayload.Season)
	assert.Equal(t, 2021, queryForm[0].LinkPayload.Year)
}

func TestLex_Person_WithLinksAndTitleAndBio(t *testing.T) {
	md := strings.Join([]string{
		"Patrick Collison",
		"[](https://www.linkedin.com/in/patrickc)",
		"[](https://twitter.com/patrickc)",
		"Founder/CEO",
		"Co-founder and CEO of Stripe.",
	}, "\n")

	blocks := Lex(md)
	require.Len(t, blocks, 1)
	require.Equal(t, model.BlockPerson, blocks[0].Kind)
	p := blocks[0].PersonPayload
	assert.Equal(t, "Patrick Collison", p.Name)
	assert.Equal(t, "Founder/CEO", p.Title)
	assert.Equal(t, "Co-founder and CEO of Stripe.", p.Bio)
	require.Len(t, p.Links, 2)
}

func TestLex_Person_SeedWithNoLinkOrTitleDemotesToText(t *testing.T) {
	md := "Patrick Collison\n# Next Heading"
	blocks := Lex(md)
	require.Len(t, blocks, 2)
	assert.Equal(t, model.BlockText, blocks[0].Kind)
	assert.Equal(t, model.BlockHeading, blocks[1].Kind)
}

func TestLex_Person_SeedWithOnlyTitleNoLinks(t *testing.T) {
	md := "Jane Doe\nFounder"
	blocks := Lex(md)
	require.Len(t, blocks, 1)
	require.Equal(t, model.BlockPerson, blocks[0].Kind)
	assert.Equal(t, "Jane Doe", blocks[0].PersonPayload.Name)
	assert.Equal(t, "Founder", blocks[0].PersonPayload.Title)
}

func TestLex_Fallback_Text(t *testing.T) {
	blocks := Lex("this is just prose that matches nothing else at all here")
	require.Len(t, blocks, 1)
	assert.Equal(t, model.BlockText, blocks[0].Kind)
}

func TestLex_EmptyLinesSkipped(t *testing.T) {
	blocks := Lex("# Stripe\n\n\n\nActive")
	require.Len(t, blocks, 2)
}

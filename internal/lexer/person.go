package lexer

import (
	"strings"
	"unicode"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

// tryPerson applies the stateful Person lookahead: a Text-shaped seed line
// followed, within maxPersonLookahead lines, by zero or more bare links, an
// optional title line, and an optional bio line (taken only after a title). It returns the block, how
// many lines (including the seed) it consumed, and whether a Person was
// committed. A seed with neither a link nor a title is demoted to Text by
// returning ok=false, leaving the caller to fall through to the Text case.
func tryPerson(lines []line, i int) (model.Block, int, bool) {
	seed := lines[i]
	if !isPersonSeed(seed.text) {
		return model.Block{}, 0, false
	}

	j := i + 1
	limit := i + 1 + maxPersonLookahead
	if limit > len(lines) {
		limit = len(lines)
	}

	var links []model.Link
	for j < limit {
		lb, ok := matchLink(lines[j])
		if !ok || lb.Kind != model.BlockLink || !lb.LinkPayload.IsBare {
			break
		}
		links = append(links, lb.LinkPayload)
		j++
	}

	title := ""
	if j < limit && isRoleLine(lines[j].text) {
		title = lines[j].text
		j++
	}

	bio := ""
	if title != "" && j < limit && len(lines[j].text) <= maxPersonBioLen && isPersonProseLine(lines[j].text) {
		bio = lines[j].text
		j++
	}

	if len(links) == 0 && title == "" {
		return model.Block{}, 0, false
	}

	person := model.Person{
		Name:  normalizeWhitespace(seed.text),
		Title: title,
		Bio:   bio,
		Links: links,
	}
	return model.Block{Kind: model.BlockPerson, Line: seed.idx, PersonPayload: person}, j - i, true
}

func isPersonSeed(text string) bool {
	tokens := strings.Fields(text)
	if len(tokens) == 0 || len(tokens) > maxPersonNameWords {
		return false
	}
	for _, tok := range tokens {
		runes := []rune(tok)
		first := runes[0]
		if first <= unicode.MaxASCII {
			if !unicode.IsUpper(first) {
				return false
			}
		} else if !unicode.IsLetter(first) {
			return false
		}
		for _, r := range runes {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
			if r == '.' || r == '-' || r == '\'' {
				continue
			}
			return false
		}
	}
	return true
}

func isRoleLine(text string) bool {
	if len(text) > maxRoleLineLen {
		return false
	}
	for _, kw := range roleKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// isPersonProseLine rejects lines that some other recognizer would have
// claimed, so a stray heading or meta field is never swallowed as a bio.
func isPersonProseLine(text string) bool {
	if headingRe.MatchString(text) {
		return false
	}
	if linkRe.MatchString(text) {
		return false
	}
	if statusKeywords[text] {
		return false
	}
	if dateLineRe.MatchString(text) {
		return false
	}
	return true
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

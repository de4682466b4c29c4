package lexer

import (
	"strings"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

type line struct {
	idx  int
	text string
}

// Lex streams markdown line by line and returns the ordered block list. The
// lexer is total: every non-empty line ends up in exactly one block (a Person
// block spans its seed line and the lookahead lines it consumed); it never
// fails.
func Lex(markdown string) []model.Block {
	lines := nonEmptyLines(markdown)

	blocks := make([]model.Block, 0, len(lines))
	i := 0
	for i < len(lines) {
		if b, ok := matchHeading(lines[i]); ok {
			blocks = append(blocks, b)
			i++
			continue
		}
		if b, ok := matchMetaField(lines[i]); ok {
			blocks = append(blocks, b)
			i++
			continue
		}
		if b, ok := matchStatusLine(lines[i]); ok {
			blocks = append(blocks, b)
			i++
			continue
		}
		if b, ok := matchDateLine(lines[i]); ok {
			blocks = append(blocks, b)
			i++
			continue
		}
		if b, ok := matchLink(lines[i]); ok {
			blocks = append(blocks, b)
			i++
			continue
		}
		if b, consumed, ok := tryPerson(lines, i); ok {
			blocks = append(blocks, b)
			i += consumed
			continue
		}
		blocks = append(blocks, model.Block{Kind: model.BlockText, Line: lines[i].idx, Text: lines[i].text})
		i++
	}
	return blocks
}

func nonEmptyLines(markdown string) []line {
	raw := strings.Split(markdown, "\n")
	out := make([]line, 0, len(raw))
	for i, r := range raw {
		trimmed := strings.TrimRight(r, " \t\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		out = append(out, line{idx: i, text: trimmed})
	}
	return out
}

func matchHeading(l line) (model.Block, bool) {
	m := headingRe.FindStringSubmatch(l.text)
	if m == nil {
		return model.Block{}, false
	}
	return model.Block{
		Kind:  model.BlockHeading,
		Line:  l.idx,
		Level: len(m[1]),
		Text:  strings.TrimSpace(m[2]),
	}, true
}

func matchMetaField(l line) (model.Block, bool) {
	m := metaFieldRe.FindStringSubmatch(l.text)
	if m == nil {
		return model.Block{}, false
	}
	key := m[1]
	if !metaFieldKeys[key] {
		return model.Block{}, false
	}
	return model.Block{
		Kind:  model.BlockMetaField,
		Line:  l.idx,
		Key:   key,
		Value: strings.TrimSpace(m[2]),
	}, true
}

func matchStatusLine(l line) (model.Block, bool) {
	if !statusKeywords[l.text] {
		return model.Block{}, false
	}
	return model.Block{
		Kind:   model.BlockStatusLine,
		Line:   l.idx,
		Status: model.ParseCompanyStatus(l.text),
	}, true
}

func matchDateLine(l line) (model.Block, bool) {
	m := dateLineRe.FindStringSubmatch(l.text)
	if m == nil {
		return model.Block{}, false
	}
	iso, ok := monthDayYearToISO(m[1], m[2], m[3])
	if !ok {
		return model.Block{}, false
	}
	return model.Block{Kind: model.BlockDateLine, Line: l.idx, ISODate: iso}, true
}

// matchLink recognizes the `[text](url)` shape and classifies it into
// TagLink, BatchLink, or a plain Link.
func matchLink(l line) (model.Block, bool) {
	m := linkRe.FindStringSubmatch(l.text)
	if m == nil {
		return model.Block{}, false
	}
	text, url := m[1], m[2]

	if tag := tagPathRe.FindStringSubmatch(url); tag != nil {
		return model.Block{
			Kind:        model.BlockTagLink,
			Line:        l.idx,
			LinkPayload: model.Link{Text: text, URL: url, Tag: tag[1]},
		}, true
	}

	if bm := batchQueryRe.FindStringSubmatch(url); bm != nil {
		year := atoiSafe(bm[2])
		return model.Block{
			Kind: model.BlockBatchLink,
			Line: l.idx,
			LinkPayload: model.Link{
				Text: text, URL: url, Season: titleCase(bm[1]), Year: year,
			},
		}, true
	}
	if bm := batchPathRe.FindStringSubmatch(url); bm != nil {
		year := atoiSafe(bm[2])
		return model.Block{
			Kind: model.BlockBatchLink,
			Line: l.idx,
			LinkPayload: model.Link{
				Text: text, URL: url, Season: titleCase(bm[1]), Year: year,
			},
		}, true
	}

	return model.Block{
		Kind: model.BlockLink,
		Line: l.idx,
		LinkPayload: model.Link{
			Text:   text,
			URL:    url,
			IsBare: strings.TrimSpace(text) == "",
		},
	}, true
}

// titleCase upper-cases the first rune and lower-cases the rest, enough for
// normalizing a lowercased season token captured from a URL path or query.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

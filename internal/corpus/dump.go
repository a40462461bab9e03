package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// section identifies which dump section subsequent lines belong to.
type section int

const (
	sectionNone section = iota
	sectionTitle
	sectionAuthor
	sectionText
)

// LoadDump parses the structured text-dump convention from spec.md §6:
// `.I <id>` starts a new document, `.T` starts a title section, `.A`
// starts an author section (parsed and discarded — Document has no
// author field), and `.W` starts the body/text section; each section
// runs until the next recognised marker or end of input. Grounded on
// the line-oriented parsing style of
// original_source/backend/src/document/parser.rs.
func LoadDump(r io.Reader) ([]Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var docs []Document
	var cur *Document
	var titleLines, textLines []string
	sec := sectionNone

	flush := func() {
		if cur == nil {
			return
		}
		cur.Title = strings.TrimSpace(strings.Join(titleLines, " "))
		cur.Text = strings.TrimSpace(strings.Join(textLines, " "))
		docs = append(docs, *cur)
		cur = nil
		titleLines = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ".I"):
			flush()
			idStr := strings.TrimSpace(strings.TrimPrefix(line, ".I"))
			id, err := strconv.Atoi(idStr)
			if err != nil {
				return nil, fmt.Errorf("corpus: parse .I id %q: %w", idStr, err)
			}
			cur = &Document{ID: id}
			sec = sectionNone
		case strings.HasPrefix(line, ".T"):
			sec = sectionTitle
		case strings.HasPrefix(line, ".A"):
			sec = sectionAuthor
		case strings.HasPrefix(line, ".W"):
			sec = sectionText
		default:
			if cur == nil {
				continue
			}
			switch sec {
			case sectionTitle:
				titleLines = append(titleLines, line)
			case sectionText:
				textLines = append(textLines, line)
			case sectionAuthor:
				// discarded: Document has no author field.
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("corpus: scan dump: %w", err)
	}
	return docs, nil
}

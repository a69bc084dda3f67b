package markdown

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// Document is the parsed shape of one markdown card file. Order values are
// 0-based line indexes, so they are unique and strictly increasing in
// document order across headings, blocks, and author lines alike.
type Document struct {
	Headings []Heading
	Blocks   []Block
	Authors  []Author
	Lines    []string
}

// Heading is one outline heading, level 1..4 (# through ####).
type Heading struct {
	Order    int64
	Level    int64
	Text     string
	CopyText string
}

// Block is a tagged blockquote line: "> [label] text".
type Block struct {
	Order      int64
	StyleLabel string
	Text       string
}

// Author is a probable author citation line (name plus year token).
type Author struct {
	Order int64
	Name  string
}

var (
	headingPattern = regexp.MustCompile(`^(#{1,4})\s+(.+?)\s*$`)
	blockPattern   = regexp.MustCompile(`^>\s*\[([^\]\s]+)\]\s*(.*\S)\s*$`)
	yearPattern    = regexp.MustCompile(`(^|\s)(19\d{2}|20\d{2}|'\d{2})\b`)
	authorPattern  = regexp.MustCompile(`^\p{Lu}[\p{L}.'-]*(?:\s+\p{Lu}[\p{L}.'-]*){0,3}\s+(19\d{2}|20\d{2}|'\d{2})\b`)
	emphasisMarks  = strings.NewReplacer("**", "", "__", "", "*", "", "_", "", "`", "")
)

// ParseFile reads and parses one card file.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ParseLines(lines), nil
}

// ParseLines parses already-split content.
func ParseLines(lines []string) *Document {
	doc := &Document{Lines: lines}

	for i, line := range lines {
		order := int64(i)
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			raw := m[2]
			doc.Headings = append(doc.Headings, Heading{
				Order:    order,
				Level:    int64(len(m[1])),
				Text:     emphasisMarks.Replace(raw),
				CopyText: raw,
			})
			continue
		}
		if m := blockPattern.FindStringSubmatch(line); m != nil {
			doc.Blocks = append(doc.Blocks, Block{
				Order:      order,
				StyleLabel: m[1],
				Text:       m[2],
			})
			continue
		}
		trimmed := strings.TrimSpace(line)
		if isProbableAuthorLine(trimmed) {
			doc.Authors = append(doc.Authors, Author{Order: order, Name: trimmed})
		}
	}
	return doc
}

// isProbableAuthorLine reports whether a plain line looks like an author
// citation: a short run of capitalized words followed by a year token.
func isProbableAuthorLine(line string) bool {
	if line == "" || len(line) > 120 {
		return false
	}
	return authorPattern.MatchString(line) && yearPattern.MatchString(line)
}

// SectionBounds returns the line range [start, end) of the subtree rooted
// at the heading with the given order: the heading itself through the line
// before the next heading of level <= its own. Returns ok=false when no
// heading has that order.
func (d *Document) SectionBounds(order int64) (start, end int, ok bool) {
	idx := -1
	for i, h := range d.Headings {
		if h.Order == order {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, 0, false
	}

	start = int(d.Headings[idx].Order)
	end = len(d.Lines)
	for _, h := range d.Headings[idx+1:] {
		if h.Level <= d.Headings[idx].Level {
			end = int(h.Order)
			break
		}
	}
	return start, end, true
}

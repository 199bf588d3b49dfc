// Package extract pulls structured fields out of free-form model output.
// It never fails: malformed output yields empty or fallback values.
package extract

import (
	"strings"
	"unicode"
)

// Style selects how the lines of a captured region become items.
type Style int

const (
	// List keeps lines starting with a digit, '-' or '•' and strips enumerators.
	List Style = iota
	// Text keeps every line that contains a letter, stripping enumerators.
	Text
	// Labeled keeps lines carrying a "label: value" pair.
	Labeled
	// Comma splits the region on commas and newlines.
	Comma
	// Block keeps the region verbatim as a single item.
	Block
)

const enumerators = "0123456789.-•) "

// MarkerSpec describes one field in model output.
type MarkerSpec struct {
	Field string
	// Open keywords start the region when a line contains any of them.
	// An empty Open captures the whole output.
	Open []string
	// Close keywords end the region. When empty the Open keywords of the
	// other specs in the same Extract call end it instead.
	Close []string
	// Inline keeps the text following the header's colon on the opening line.
	Inline bool
	Style  Style
	// Max caps the number of items; zero means unlimited.
	Max int
}

// Sections maps field names to extracted items.
type Sections map[string][]string

// Items returns the items of a field.
func (s Sections) Items(field string) []string {
	return s[field]
}

// Text returns the items of a field joined by newlines.
func (s Sections) Text(field string) string {
	return strings.Join(s[field], "\n")
}

// Extract captures every marker's region independently and parses its items.
// Lenient keyword matching means overlapping headers can mis-segment fields.
func Extract(output string, specs []MarkerSpec) Sections {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	result := make(Sections, len(specs))

	for i, marker := range specs {
		closers := marker.Close
		if len(closers) == 0 && len(marker.Open) > 0 {
			closers = otherOpeners(specs, i)
		}

		region := capture(lines, marker, closers)
		result[marker.Field] = parse(region, marker.Style, marker.Max)
	}

	return result
}

func otherOpeners(specs []MarkerSpec, self int) []string {
	var out []string
	for i, s := range specs {
		if i != self {
			out = append(out, s.Open...)
		}
	}
	return out
}

func capture(lines []string, marker MarkerSpec, closers []string) []string {
	if len(marker.Open) == 0 {
		return lines
	}

	var region []string
	capturing := false

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)

		if containsAny(lower, marker.Open) {
			if !capturing && marker.Inline {
				if tail := headerTail(line); tail != "" {
					region = append(region, tail)
				}
			}
			capturing = true
			continue
		}

		if !capturing {
			continue
		}

		if containsAny(lower, closers) {
			break
		}

		region = append(region, line)
	}

	return region
}

// headerTail returns what follows a "**HEADER:**" or "HEADER:" prefix.
func headerTail(line string) string {
	if idx := strings.Index(line, ":**"); idx >= 0 {
		return strings.TrimSpace(line[idx+3:])
	}
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(strings.TrimLeft(line[idx+1:], "*"))
	}
	return ""
}

func parse(region []string, style Style, max int) []string {
	var items []string

	switch style {
	case Block:
		block := strings.TrimSpace(strings.Trim(strings.TrimSpace(strings.Join(region, "\n")), "═"))
		if block != "" {
			items = append(items, block)
		}
	case Comma:
		for _, line := range region {
			for _, part := range strings.Split(line, ",") {
				part = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), enumerators))
				if len(part) > 2 {
					items = append(items, part)
				}
			}
		}
	default:
		for _, line := range region {
			if !keep(line, style) {
				continue
			}
			item := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), enumerators))
			if item != "" {
				items = append(items, item)
			}
		}
	}

	if max > 0 && len(items) > max {
		items = items[:max]
	}

	return items
}

func keep(line string, style Style) bool {
	switch style {
	case List:
		return IsListItem(line)
	case Labeled:
		return strings.Contains(line, ":") && hasLetter(line)
	default:
		return hasLetter(line)
	}
}

// IsListItem reports whether line starts with a digit, dash or bullet.
func IsListItem(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	r := []rune(line)[0]
	return unicode.IsDigit(r) || r == '-' || r == '•'
}

// ListItems returns every list item in output, capped at max.
func ListItems(output string, max int) []string {
	return Extract(output, []MarkerSpec{{Field: "items", Style: List, Max: max}}).Items("items")
}

// Window returns the first line containing keyword together with the next
// n-1 lines, blank lines dropped and joined by spaces. It returns fallback
// when keyword is absent.
func Window(output, keyword string, n int, fallback string) string {
	lines := strings.Split(output, "\n")
	keyword = strings.ToLower(keyword)

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), keyword) {
			continue
		}

		end := i + n
		if end > len(lines) {
			end = len(lines)
		}

		var out []string
		for _, next := range lines[i:end] {
			if next = strings.TrimSpace(next); next != "" {
				out = append(out, next)
			}
		}
		return strings.Join(out, " ")
	}

	return fallback
}

// FirstParagraph returns the first blank-line separated block longer than minLen.
func FirstParagraph(output string, minLen int) string {
	for _, para := range strings.Split(output, "\n\n") {
		para = strings.TrimSpace(para)
		if len([]rune(para)) > minLen {
			return para
		}
	}
	return ""
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

const fallbackParagraphLength = 100

// Content picks the rewritten content: the captured block when present, else
// the first substantial paragraph, else the whole trimmed output.
func Content(output, block string) string {
	if block = strings.TrimSpace(block); block != "" {
		return block
	}
	if para := FirstParagraph(output, fallbackParagraphLength); para != "" {
		return para
	}
	return strings.TrimSpace(output)
}

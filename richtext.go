package apidance

import (
	"regexp"
	"sort"
)

var (
	boldRe   = regexp.MustCompile(`\*\*[^*]+\*\*|__[^_]+__`)
	italicRe = regexp.MustCompile(`\*[^*]+\*|_[^_]+_`)
)

// markSpan is a formatted region of the original markdown text.
type markSpan struct {
	start, end int
	kind       string // "Bold" or "Italic"
}

// delimiterFree reports whether the match at [s, e) stands alone, i.e. the
// delimiter character does not continue immediately before or after it.
// Without this check "*bold*" would be found inside "**bold**".
// Double-underscore bold carries no such guard.
func delimiterFree(text string, s, e int) bool {
	d := text[s]
	if d == '_' && text[s+1] == '_' {
		return true
	}
	if s > 0 && text[s-1] == d {
		return false
	}
	if e < len(text) && text[e] == d {
		return false
	}
	return true
}

// findMarks returns sequential non-overlapping matches of re in text,
// skipping matches that fail the delimiter guard.
func findMarks(re *regexp.Regexp, text, kind string) []markSpan {
	var marks []markSpan
	pos := 0
	for pos < len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		s, e := pos+loc[0], pos+loc[1]
		if !delimiterFree(text, s, e) {
			pos = s + 1
			continue
		}
		marks = append(marks, markSpan{start: s, end: e, kind: kind})
		pos = e
	}
	return marks
}

// ParseMarkdown strips bold (**/__ delimited) and italic (*/_ delimited)
// markdown from text and returns the plain text together with richtext
// tags whose indexes point into that plain text.
func ParseMarkdown(text string) (string, []RichtextTag) {
	marks := findMarks(boldRe, text, "Bold")
	marks = append(marks, findMarks(italicRe, text, "Italic")...)
	sort.Slice(marks, func(i, j int) bool {
		if marks[i].start != marks[j].start {
			return marks[i].start < marks[j].start
		}
		return marks[i].end < marks[j].end
	})

	plain := text
	offset := 0
	var tags []RichtextTag
	for _, m := range marks {
		delim := 1
		if m.kind == "Bold" {
			delim = 2
		}
		content := text[m.start+delim : m.end-delim]
		realStart := m.start - offset
		tags = append(tags, RichtextTag{
			FromIndex:     realStart,
			ToIndex:       realStart + len(content),
			RichtextTypes: []string{m.kind},
		})
		plain = plain[:m.start-offset] + content + plain[m.end-offset:]
		offset += (m.end - m.start) - len(content)
	}
	return plain, tags
}

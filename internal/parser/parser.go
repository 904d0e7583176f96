// Package parser segments raw journal text into the units the analysis
// engine works with: lowercase word tokens, inline #tags, paragraphs,
// and sentences.
package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

// Result holds the output of segmenting a journal entry.
type Result struct {
	Words      []string
	Tags       []string
	Paragraphs []string
}

// Parse segments text into words, inline tags, and paragraphs.
func Parse(text string) *Result {
	return &Result{
		Words:      Words(text),
		Tags:       Tags(text),
		Paragraphs: Paragraphs(text),
	}
}

// Words returns lowercase whitespace-separated tokens with surrounding
// punctuation trimmed. Matching against these tokens is word-boundary
// matching: a keyword only counts when it appears as a whole word.
func Words(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Tags collects deduplicated inline #tags from the text.
func Tags(text string) []string {
	matches := tagRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		t := m[1]
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Paragraphs splits text on blank lines and drops empty chunks.
func Paragraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, chunk := range strings.Split(normalized, "\n\n") {
		p := strings.TrimSpace(chunk)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Sentences splits a paragraph on terminal punctuation and returns up to
// max sentences of at least minLen runes each.
func Sentences(paragraph string, max, minLen int) []string {
	raw := strings.FieldsFunc(paragraph, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len([]rune(s)) < minLen {
			continue
		}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}

// Snippet returns the first n runes of text on a single line, used for
// node labels in the hierarchical map.
func Snippet(text string, n int) string {
	oneLine := strings.Join(strings.Fields(text), " ")
	runes := []rune(oneLine)
	if len(runes) <= n {
		return oneLine
	}
	return string(runes[:n]) + "…"
}

package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reWhitespace = regexp.MustCompile(`[ \t\f\v]+`)
	reNewlines   = regexp.MustCompile(`\s*\n\s*`)
	reBlankLine  = regexp.MustCompile(`\n[ \t]*\n`)
)

// NormalizeFragment flattens one recognized paragraph onto a single line.
func NormalizeFragment(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reNewlines.ReplaceAllString(s, " ")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeFragments normalizes each fragment and drops the empty ones.
func NormalizeFragments(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f = NormalizeFragment(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// SplitParagraphs splits plain engine output on blank lines.
func SplitParagraphs(s string) []string {
	s = reCRLF.ReplaceAllString(s, "\n")
	return NormalizeFragments(reBlankLine.Split(s, -1))
}

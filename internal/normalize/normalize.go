package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// CollapseSpace reduces every run of whitespace, including newlines, to a
// single space and trims the ends. Empty or all-whitespace input yields "".
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanLines splits s on newlines, collapses whitespace within each line,
// strips leading bullet glyphs, and drops lines that end up empty.
func CleanLines(s string) []string {
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = CollapseSpace(strings.TrimLeft(ln, " \t•-*–—·∙"))
		if ln == "" {
			continue
		}
		out = append(out, ln)
	}
	return out
}

// FoldKey returns a case-folded, whitespace-collapsed form of s suitable as a
// dedup key. Two bullets that differ only in case or spacing share a key.
func FoldKey(s string) string {
	// cases.Caser is stateful, so build one per call rather than sharing.
	return cases.Fold().String(CollapseSpace(s))
}

// Truncate shortens s to at most max bytes without splitting a UTF-8 rune.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := 0
	for i := range s {
		if i > max {
			break
		}
		cut = i
	}
	return s[:cut]
}

package deed

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reManyNewlines = regexp.MustCompile(`\n{3,}`)
	reHorizontalWS = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	reAnyWS        = regexp.MustCompile(`\s+`)

	typographic = strings.NewReplacer(
		"‘", "'", "’", "'", "“", `"`, "”", `"`,
		"–", "-", "—", "-", "…", "...",
	)
)

// NormalizeText prepares raw OCR or text-layer output for pattern matching:
// line endings become \n, runs of three or more newlines shrink to two,
// horizontal whitespace collapses to one space and non-printable characters
// are dropped. Line structure is kept because several patterns anchor on it.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = typographic.Replace(norm.NFKC.String(text))

	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.IsSpace(r):
			return ' '
		case !unicode.IsPrint(r):
			return -1
		}
		return r
	}, text)

	text = reHorizontalWS.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = reManyNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// collapseSpace folds every whitespace run, newlines included, to one space.
func collapseSpace(s string) string {
	return strings.TrimSpace(reAnyWS.ReplaceAllString(s, " "))
}

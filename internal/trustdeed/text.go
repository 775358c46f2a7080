package trustdeed

import (
	"strings"
)

const textWidth = 80

// RenderText lays the deed out on an 80-column page.
func RenderText(d Deed) ([]byte, error) {
	var b strings.Builder
	for _, blk := range layout(d) {
		if blk.page {
			b.WriteString("\n" + strings.Repeat("=", textWidth) + "\n")
		}
		switch {
		case blk.rule:
			b.WriteString(strings.Repeat("-", textWidth))
		case blk.gap:
		case blk.cols != nil:
			b.WriteString(strings.TrimRight(padRight(blk.cols[0], textWidth/2)+blk.cols[1], " "))
		case blk.style == styleTitle || blk.style == styleCentered:
			b.WriteString(center(blk.text))
		default:
			b.WriteString(strings.Join(wrap(blk.text, textWidth), "\n"))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}

func center(s string) string {
	if pad := (textWidth - len(s)) / 2; pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// wrap breaks s into lines of at most width characters on word boundaries.
// A word longer than width gets a line of its own.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

package deed

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minLegalLength rejects captures that are only punctuation or a stray word.
const minLegalLength = 10

const describedAs = `[\s,]*(?:and\s+(?:is\s+)?)?described\s+as(?:\s+follows)?\s*[:;]?`

// legalCue marks where a legal description starts. When bounded is set the
// description is the cue's capture itself; otherwise it runs from the capture
// start to the next end marker.
type legalCue struct {
	name    string
	re      *regexp.Regexp
	bounded bool
	// needsEnd rejects an unbounded cue when no end marker follows it.
	needsEnd bool
}

var legalCues = []legalCue{
	{
		name:     "city-county-state",
		re:       regexp.MustCompile(`(?i)city\s+of\s(?s:.{1,80}?)county\s+of\s(?s:.{1,80}?)state\s+of\s+(?:california|ca)\b` + describedAs + `()`),
		needsEnd: true,
	},
	{
		name:     "county-state",
		re:       regexp.MustCompile(`(?i)county\s+of\s(?s:.{1,80}?)state\s+of\s+(?:california|ca)\b` + describedAs + `()`),
		needsEnd: true,
	},
	{
		name:     "state",
		re:       regexp.MustCompile(`(?i)state\s+of\s+(?:california|ca)\b` + describedAs + `()`),
		needsEnd: true,
	},
	{
		name:     "parcel",
		re:       regexp.MustCompile(`(?i)\b(parcel\s+\d+\s*:)`),
		needsEnd: true,
	},
	{
		name:    "lot-tract",
		re:      regexp.MustCompile(`(?i)\b(lot\s+\d+(?:\bno\.|[^.])*?\b(?:tract|block|map)\b(?:\bno\.|[^.])*\.)`),
		bounded: true,
	},
	{
		name:     "that-certain",
		re:       regexp.MustCompile(`(?i)\b(that\s+certain\s+(?:real\s+)?property\b)`),
		needsEnd: true,
	},
	{
		name: "described-as",
		re:   regexp.MustCompile(`(?i)(?:described\s+as|legal\s+description)\s*[:;]?()`),
	},
}

var (
	reLegalEnd = regexp.MustCompile(`(?i)commonly\s+known\s+as|\bdated\b|\bA\.P\.N\.|\bAPN\b|\bassessor`)
	reParaEnd  = regexp.MustCompile(`\n\n`)
)

// ExtractLegalDescription returns the legal description paragraph, collapsed
// to one line and capped at MaxLegalDescription characters.
func ExtractLegalDescription(text string) string {
	v, _ := extractLegalDescription(text)
	return v
}

func extractLegalDescription(text string) (string, string) {
	for _, cue := range legalCues {
		for _, loc := range cue.re.FindAllStringSubmatchIndex(text, -1) {
			if len(loc) < 4 || loc[2] < 0 {
				continue
			}
			region := text[loc[2]:]
			if cue.bounded {
				region = text[loc[2]:loc[3]]
			}

			// Cues whose capture is empty mark only a start position; the
			// cue text itself must not count as an end marker.
			search := region
			offset := 0
			if loc[3] > loc[2] && !cue.bounded {
				offset = loc[3] - loc[2]
				search = region[offset:]
			}

			if end := reLegalEnd.FindStringIndex(search); end != nil {
				region = region[:offset+end[0]]
			} else if cue.needsEnd {
				continue
			} else if !cue.bounded {
				if p := reParaEnd.FindStringIndex(search); p != nil {
					region = region[:offset+p[0]]
				}
			}

			if v, ok := acceptLegal(region); ok {
				return v, cue.name
			}
		}
	}
	return "", ""
}

func acceptLegal(raw string) (string, bool) {
	v := strings.Trim(collapseSpace(raw), " :;,")
	if utf8.RuneCountInString(v) > MaxLegalDescription {
		v = strings.TrimSpace(string([]rune(v)[:MaxLegalDescription]))
	}
	return v, utf8.RuneCountInString(v) >= minLegalLength
}

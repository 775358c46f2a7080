package deed

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minNameLength is the length a cleaned party name must exceed to be kept.
const minNameLength = 5

const nameSeq = `[A-Z][A-Za-z.'-]*(?:[ \t]+[A-Z][A-Za-z.'-]*)*`

var granteeRules = []rule{
	mustRule("grant-to-qualified",
		`(?i:hereby[ \t]+grants?)(?:[ \t]*\([A-Za-z]\))?[ \t]+(?i:(?:and[ \t]+conveys?[ \t]+)?to)[:;]?\s+\*?[ \t]*`+
			`([A-Za-z][A-Za-z\s.'&-]*?)[ \t]*,[ \t]*(?i:husband|wife|as|whose)\b`),
	mustRule("grant-to-pair",
		`(?i:grants?)(?:[ \t]*\([A-Za-z]\))?[ \t]+(?i:to)[:;]?\s+\*?[ \t]*(`+
			nameSeq+`[ \t]+(?:AND|And|and|&)[ \t]+`+nameSeq+`)`),
	mustRule("to-capitalized",
		`\b(?:TO|To|to)[ \t]+([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+(?:[ \t]+(?:and|AND|&)[ \t]+[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+)?)`),
	mustRule("grantee-label", `(?i:grantees?(?:\(s\))?)[ \t]*[:;][ \t]*([^,\n]+)`),
	mustRule("to-trustee",
		`(?i:in[ \t]+favor[ \t]+of|to)[ \t]+([A-Z][A-Za-z \t.'-]+?)[ \t]*,[ \t]*(?i:trustees?)\b`),
}

var mailToRule = mustRule("when-recorded-mail-to",
	`(?i:when[ \t]+recorded[ \t]+mail[ \t]+to)[:;]?[ \t]*\n?[ \t]*([A-Za-z][^\n]*?)(?:\n|\d{4}|$)`)

var grantorRules = []rule{
	mustRule("line-start-grant", `(?m)^([A-Z][A-Za-z ,.'&-]*?)(?:\s+(?i:hereby)[ \t]+|[ \t]+)(?i:grants?)\b`),
	mustRule("valuable-consideration",
		`(?i:for[ \t]+(?:a[ \t]+)?valuable[ \t]+consideration)(?:,?\s*(?i:receipt\s+of\s+which\s+is\s+hereby\s+acknowledged))?\s*,\s*`+
			`([A-Z][A-Za-z ,.'&-]*?)\s+(?i:hereby\s+)?(?i:grants?)\b`),
	mustRule("grantor-label", `(?i:(?:undersigned[ \t]+)?grantors?(?:\(s\))?)[ \t]*[:;][ \t]*([^,\n]+)`),
	mustRule("marital-status-line",
		`(?m)^([A-Z][A-Z \t.'-]+(?:[ \t]+(?:AND|and)[ \t]+[A-Z][A-Z \t.'-]+)?)[, \t]+(?i:an?[ \t]+)?(?i:unmarried|married)`),
}

var (
	reHonorific     = regexp.MustCompile(`(?i)\b(?:mr|mrs|ms|dr)\.[ \t]*`)
	reMaritalPhrase = regexp.MustCompile(`(?i)\ban?[ \t]+(?:unmarried|married|single)[ \t]+(?:man|woman|person)\b.*$`)
	reQualifierTail = regexp.MustCompile(
		`(?i)(?:\b(?:husband|wife|married|single|unmarried|trustee|successor|trust|individually|iii|ii)\b|\b(?:jr|sr)\.).*$`)
	reDanglingTail = regexp.MustCompile(`(?i)(?:[\s,]+(?:an?|as|and|&|the))+[\s,;:]*$`)
	reTrailingPunc = regexp.MustCompile(`[\s,;:]+$`)

	reGrantorNoise = regexp.MustCompile(`(?i)consideration|receipt|acknowledg|undersigned|declare|\bdeed\b|transfer|\btax\b`)
	reMailToNoise  = regexp.MustCompile(`(?i)\btitle\b|\bescrow\b`)
	reGrantorLabel = regexp.MustCompile(`(?i)^\s*(?:the\s+)?grantors?(?:\(s\)|\b)[\s:;,]*`)

	nameSeparators = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+and\s+`),
		regexp.MustCompile(`\s+&\s+`),
		regexp.MustCompile(`\s*,\s*`),
	}
	reTrusteeStart = regexp.MustCompile(`(?i)^trustees?\b`)
)

// CleanName isolates a person's name from the qualifiers deeds append to it.
// Everything from the first marital or role keyword onward is dropped, along
// with honorifics and dangling articles or commas. CleanName is idempotent.
func CleanName(raw string) string {
	name := collapseSpace(raw)
	for i := 0; i < 8; i++ {
		next := cleanNameOnce(name)
		if next == name {
			break
		}
		name = next
	}
	return name
}

func cleanNameOnce(name string) string {
	name = reHonorific.ReplaceAllString(name, "")
	name = reMaritalPhrase.ReplaceAllString(name, "")
	name = reQualifierTail.ReplaceAllString(name, "")
	name = reDanglingTail.ReplaceAllString(name, "")
	name = reTrailingPunc.ReplaceAllString(name, "")
	return collapseSpace(name)
}

// SplitIntoTwoNames splits a grantee string into at most two individual
// names. Separators are tried in order: "and", "&", then a comma that does not
// introduce a trustee designation. Commas go last because they also appear
// inside single compound names. Without a separator the whole input is name1.
func SplitIntoTwoNames(full string) (string, string) {
	full = collapseSpace(full)
	if full == "" {
		return "", ""
	}

	for _, sep := range nameSeparators {
		first, second, ok := splitOnce(full, sep)
		if !ok {
			continue
		}
		return cleanOrKeep(first), cleanOrKeep(second)
	}

	return full, ""
}

// splitOnce cuts s at the first usable occurrence of sep. The second part
// ends at the following occurrence of the same separator, if any.
func splitOnce(s string, sep *regexp.Regexp) (string, string, bool) {
	locs := sep.FindAllStringIndex(s, -1)
	for i, loc := range locs {
		first := strings.TrimSpace(s[:loc[0]])
		rest := s[loc[1]:]
		if first == "" || strings.TrimSpace(rest) == "" {
			continue
		}
		if sep == nameSeparators[2] && reTrusteeStart.MatchString(rest) {
			continue
		}
		second := rest
		if i+1 < len(locs) {
			second = s[loc[1]:locs[i+1][0]]
		}
		second = strings.TrimSpace(second)
		if second == "" {
			continue
		}
		return first, second, true
	}
	return "", "", false
}

func cleanOrKeep(part string) string {
	if cleaned := CleanName(part); cleaned != "" {
		return cleaned
	}
	return collapseSpace(part)
}

// ExtractGranteeAndGrantor returns the receiving and conveying parties. Both
// are empty when no pattern matches.
func ExtractGranteeAndGrantor(text string) (grantee, grantor string) {
	grantee, _ = extractGrantee(text)
	grantor, _ = extractGrantor(text)
	return grantee, grantor
}

func extractGrantee(text string) (string, string) {
	if h, ok := firstAccepted(text, granteeRules, acceptName); ok {
		return h.Value, h.Rule
	}
	if h, ok := firstAccepted(text, []rule{mailToRule}, acceptMailTo); ok {
		return h.Value, h.Rule
	}
	return "", ""
}

func extractGrantor(text string) (string, string) {
	if h, ok := firstAccepted(text, grantorRules, acceptGrantor); ok {
		return h.Value, h.Rule
	}
	return "", ""
}

func acceptName(raw string) (string, bool) {
	name := CleanName(raw)
	return name, utf8.RuneCountInString(name) > minNameLength
}

func acceptMailTo(raw string) (string, bool) {
	if reMailToNoise.MatchString(raw) {
		return "", false
	}
	return acceptName(raw)
}

func acceptGrantor(raw string) (string, bool) {
	raw = reGrantorLabel.ReplaceAllString(raw, "")
	if reGrantorNoise.MatchString(raw) {
		return "", false
	}
	return acceptName(raw)
}

package deed

import "regexp"

const apnGroups = `(\d{3,4}[ \t.\-]+\d{1,4}[ \t.\-]+\d{1,4})\b`

// Labeled rules must run before the bare ones so that an unrelated dashed
// number elsewhere in the deed cannot shadow a labeled APN.
var apnRules = []rule{
	mustRule("assessors-parcel", `(?i:assessor'?s?[ \t]+parcel[ \t]+(?:no\.?|number|#))[ \t]*[:;#]?[ \t]*`+apnGroups),
	mustRule("apn-label", `\b(?i:a\.?p\.?n\.?)[ \t]*(?i:no\.?|number|#)?[ \t]*[:;#]?[ \t]*`+apnGroups),
	mustRule("parcel-label", `(?i:parcel[ \t]+(?:no\.?|number|id|#))[ \t]*[:;#]?[ \t]*`+apnGroups),
	mustRule("bare-4-n-n", `\b(\d{4}-\d{1,3}-\d{1,3})\b`),
	mustRule("bare-3-3-n", `\b(\d{3}-\d{3}-\d{2,3})\b`),
}

var (
	reAPNSeparators = regexp.MustCompile(`[\s.\-]+`)
	reISODate       = regexp.MustCompile(`^(?:19|20)\d{2}-(?:0?[1-9]|1[0-2])-(?:0?[1-9]|[12]\d|3[01])$`)
)

// ExtractAPN returns the Assessor's Parcel Number with every run of spaces,
// dots or dashes normalised to a single dash.
func ExtractAPN(text string) string {
	v, _ := extractAPN(text)
	return v
}

func extractAPN(text string) (string, string) {
	h, ok := firstAccepted(text, apnRules, acceptAPN)
	if !ok {
		return "", ""
	}
	return h.Value, h.Rule
}

func acceptAPN(raw string) (string, bool) {
	v := reAPNSeparators.ReplaceAllString(raw, "-")
	if reISODate.MatchString(v) {
		return "", false
	}
	return v, v != ""
}

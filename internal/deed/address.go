package deed

import (
	"regexp"
	"strings"
)

const streetPattern = `\d{3,5}(?:[ \t]+[A-Z][A-Za-z'.-]*)+?[ \t]+` +
	`(?i:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Way|Court|Ct|Place|Pl|Boulevard|Blvd|` +
	`Circle|Cir|Parkway|Pkwy|Trail|Terrace|Ter)\b\.?`

const cityWords = `[A-Z][A-Za-z]+(?:[ \t]+[A-Z][A-Za-z]+)?`

var addressRules = []rule{
	mustRule("commonly-known-as",
		`(?i:commonly\s+known\s+as|(?:property\s+(?:is\s+)?)?located\s+at)[ \t]*[:;]?\s*(`+streetPattern+`)`),
	mustRule("street-suffix", `\b(`+streetPattern+`)`),
}

var cityRules = []rule{
	mustRule("before-california", `(`+cityWords+`)[ \t]*,[ \t]*California\b`),
	mustRule("city-of", `(?i:city[ \t]+of)[ \t]+(`+cityWords+`)`),
	mustRule("before-zip", `(`+cityWords+`)[ \t]*,[ \t]*(?:CA[ \t,]+)?9\d{4}\b`),
}

var (
	// reCityAfterStreet reads ", City, CA 9xxxx" directly after a street match.
	reCityAfterStreet = regexp.MustCompile(
		`^[ \t]*,?[ \t]*([A-Z][A-Za-z]+(?:[ \t]+[A-Z][A-Za-z]+)*)[ \t]*,[ \t]*(?:CA|California)\b\.?[ \t,]*(9\d{4}(?:-\d{4})?)?`)
	reZip = regexp.MustCompile(`\b(9\d{4}(?:-\d{4})?)\b`)

	reCityCounty   = regexp.MustCompile(`(?i)\s*\bcounty\b.*$`)
	reCityState    = regexp.MustCompile(`(?i)\s+(?:CA|California)$`)
	reStreetTail   = regexp.MustCompile(`(?i)[\s,]+(?:CA|California|County)$`)
	cityStopWords  = map[string]bool{"COUNTY": true, "STATE": true, "CITY": true, "THE": true}
	streetTrimCuts = ",;:"
)

// ExtractAddress locates the property street address, city and ZIP. Each
// part is searched independently so a miss on one does not hide the others.
func ExtractAddress(text string) Address {
	addr, _ := extractAddress(text)
	return addr
}

func extractAddress(text string) (Address, string) {
	var (
		out     Address
		matched string
		after   string
	)

	for _, r := range addressRules {
		loc := r.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		out.Street = cleanStreet(text[loc[2]:loc[3]])
		after = text[loc[3]:]
		matched = r.name
		break
	}

	if after != "" {
		if m := reCityAfterStreet.FindStringSubmatch(after); m != nil {
			out.City = cleanCity(m[1])
			out.Zip = m[2]
		}
	}

	if out.City == "" {
		if h, ok := firstAccepted(text, cityRules, acceptCity); ok {
			out.City = h.Value
		}
	}

	if out.Zip == "" {
		if m := reZip.FindStringSubmatch(text); m != nil {
			out.Zip = m[1]
		}
	}

	return out, matched
}

func cleanStreet(s string) string {
	s = collapseSpace(s)
	s = reStreetTail.ReplaceAllString(s, "")
	return strings.TrimRight(s, streetTrimCuts)
}

func cleanCity(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = collapseSpace(s)
	s = reCityCounty.ReplaceAllString(s, "")
	s = reCityState.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if cityStopWords[strings.ToUpper(s)] {
		return ""
	}
	return s
}

func acceptCity(raw string) (string, bool) {
	c := cleanCity(raw)
	return c, c != ""
}

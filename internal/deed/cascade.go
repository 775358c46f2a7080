package deed

import "regexp"

// rule is one step of an ordered extraction cascade. Rules are evaluated in
// slice order and the first one producing an accepted value wins.
type rule struct {
	name  string
	re    *regexp.Regexp
	group int
}

// acceptFunc cleans a raw capture and reports whether it is usable.
type acceptFunc func(raw string) (string, bool)

// hit records which rule produced a value, for diagnostics.
type hit struct {
	Rule  string
	Value string
}

// firstAccepted walks rules in priority order and returns the first capture
// that accept keeps. Every match of a rule is considered before moving on to
// the next rule.
func firstAccepted(text string, rules []rule, accept acceptFunc) (hit, bool) {
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if r.group >= len(m) {
				continue
			}
			if v, ok := accept(m[r.group]); ok {
				return hit{Rule: r.name, Value: v}, true
			}
		}
	}
	return hit{}, false
}

func mustRule(name, pattern string) rule {
	return rule{name: name, re: regexp.MustCompile(pattern), group: 1}
}

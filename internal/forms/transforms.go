package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultState fills the state slot of composite addresses.
const DefaultState = "CA"

var (
	reNotNumeric = regexp.MustCompile(`[^\d.\-]`)
	reISODay     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	reUSDay      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})`)
)

// FormatCurrency renders an amount with thousands separators and two
// decimals: "$1,234.5" becomes "1,234.50". Input that does not parse as a
// number yields "".
func FormatCurrency(amount string) string {
	digits := reNotNumeric.ReplaceAllString(amount, "")
	if digits == "" {
		return ""
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return ""
	}
	return message.NewPrinter(language.English).Sprintf("%.2f", v)
}

// DateParts is a date split for forms that print month, day and year in
// separate boxes.
type DateParts struct {
	Month string `json:"month"`
	Day   string `json:"day"`
	Year  string `json:"year"`
	Full  string `json:"full"`
}

// IsZero reports whether the date was absent or unreadable.
func (d DateParts) IsZero() bool {
	return d == DateParts{}
}

// SplitDate accepts YYYY-MM-DD (optionally followed by a time) or
// MM/DD/YYYY. Empty or unreadable input yields zero DateParts.
func SplitDate(s string) DateParts {
	s = strings.TrimSpace(s)
	var y, m, d string
	if p := reISODay.FindStringSubmatch(s); p != nil {
		y, m, d = p[1], p[2], p[3]
	} else if p := reUSDay.FindStringSubmatch(s); p != nil {
		m, d, y = p[1], p[2], p[3]
	} else {
		return DateParts{}
	}

	mi, _ := strconv.Atoi(m)
	di, _ := strconv.Atoi(d)
	if mi < 1 || mi > 12 || di < 1 || di > 31 {
		return DateParts{}
	}

	parts := DateParts{
		Month: fmt.Sprintf("%02d", mi),
		Day:   fmt.Sprintf("%02d", di),
		Year:  y,
	}
	parts.Full = parts.Month + "/" + parts.Day + "/" + parts.Year
	return parts
}

// CompositeAddress joins address parts as "street, city, ST zip" for forms
// with a single address box. Missing parts are left out along with their
// separators; an empty state becomes DefaultState.
func CompositeAddress(street, city, state, zip string) string {
	street, city, zip = strings.TrimSpace(street), strings.TrimSpace(city), strings.TrimSpace(zip)
	if street == "" && city == "" && zip == "" {
		return ""
	}
	state = strings.TrimSpace(state)
	if state == "" {
		state = DefaultState
	}

	var parts []string
	for _, p := range []string{street, city, strings.TrimSpace(state + " " + zip)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Package trustdeed prepares a trust transfer deed conveying property from
// its owners into their revocable living trust, and renders it as plain
// text, PDF or a Word document.
package trustdeed

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// DefaultCounty is printed when Data.County is empty.
const DefaultCounty = "Los Angeles"

const defaultState = "CA"

// Format selects a renderer.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat accepts the names users type for each format. Empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "txt", "text":
		return FormatText, nil
	case "docx", "word":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("unsupported deed format %q (want pdf, docx or txt)", s)
}

// MIMEType is the media type of the rendered bytes.
func (f Format) MIMEType() string {
	switch f {
	case FormatText:
		return "text/plain"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/pdf"
	}
}

// Data is what the user supplies, usually prefilled from an extracted deed.
type Data struct {
	Grantor1Name  string `json:"grantor1Name"`
	Grantor2Name  string `json:"grantor2Name"`
	OwnershipType string `json:"ownershipType"`

	TrustName string `json:"trustName"`
	TrustDate string `json:"trustDate"`

	PropertyAddress  string `json:"propertyAddress"`
	PropertyCity     string `json:"propertyCity"`
	PropertyZip      string `json:"propertyZip"`
	APN              string `json:"apn"`
	LegalDescription string `json:"legalDescription"`

	MailingAddress string `json:"mailingAddress"`
	MailingCity    string `json:"mailingCity"`
	MailingState   string `json:"mailingState"`
	MailingZip     string `json:"mailingZip"`

	County string `json:"county"`
}

// Mailing is the recording and tax-statement addressee block.
type Mailing struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	CityStateZip string `json:"cityStateZip"`
}

// Deed is Data with every derived line resolved, ready to render.
type Deed struct {
	Data
	Dated     string  `json:"dated"`
	TrustDate string  `json:"trustDate"`
	TrustName string  `json:"trustName"`
	Grantors  string  `json:"grantors"`
	Trustees  string  `json:"trustees"`
	Mailing   Mailing `json:"mailing"`
}

// Prepare derives the deed's lines. now dates the deed and stands in for a
// missing trust date.
func Prepare(d Data, now time.Time) Deed {
	trim(&d)
	if d.County == "" {
		d.County = DefaultCounty
	}

	out := Deed{Data: d, Dated: LongDate(now)}
	out.TrustDate = out.Dated
	if d.TrustDate != "" {
		out.TrustDate = FormatTrustDate(d.TrustDate)
	}
	out.TrustName = d.TrustName
	if out.TrustName == "" {
		out.TrustName = TrustName(d.Grantor1Name, d.Grantor2Name)
	}
	out.Grantors = GrantorNames(d)
	out.Trustees = TrusteeNames(d, out.TrustName, out.TrustDate)
	out.Mailing = MailingInfo(d)
	return out
}

func trim(d *Data) {
	for _, p := range []*string{
		&d.Grantor1Name, &d.Grantor2Name, &d.OwnershipType, &d.TrustName, &d.TrustDate,
		&d.PropertyAddress, &d.PropertyCity, &d.PropertyZip, &d.APN, &d.LegalDescription,
		&d.MailingAddress, &d.MailingCity, &d.MailingState, &d.MailingZip, &d.County,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// TrustName builds the trust's title from the grantors' names. Two grantors
// sharing a last name make a family trust.
func TrustName(grantor1, grantor2 string) string {
	grantor1, grantor2 = strings.TrimSpace(grantor1), strings.TrimSpace(grantor2)
	switch {
	case grantor1 == "":
		return "LIVING TRUST"
	case grantor2 == "":
		return strings.ToUpper(grantor1) + " LIVING TRUST"
	}
	last1, last2 := lastName(grantor1), lastName(grantor2)
	if strings.EqualFold(last1, last2) {
		return strings.ToUpper(last1) + " FAMILY LIVING TRUST"
	}
	return strings.ToUpper(grantor1) + " AND " + strings.ToUpper(grantor2) + " LIVING TRUST"
}

func lastName(name string) string {
	parts := strings.Fields(name)
	return parts[len(parts)-1]
}

func joinGrantors(d Data) string {
	if d.Grantor2Name == "" {
		return d.Grantor1Name
	}
	if d.Grantor1Name == "" {
		return d.Grantor2Name
	}
	return d.Grantor1Name + " AND " + d.Grantor2Name
}

// GrantorNames is the conveying line: the owners and how they hold title.
func GrantorNames(d Data) string {
	names := joinGrantors(d)
	if d.OwnershipType != "" {
		names += ", " + d.OwnershipType
	}
	return names
}

// TrusteeNames names the owners as trustees of their trust. It is empty
// without a first grantor.
func TrusteeNames(d Data, trustName, trustDate string) string {
	if d.Grantor1Name == "" {
		return ""
	}
	title := "TRUSTEE"
	if d.Grantor2Name != "" {
		title = "TRUSTEES"
	}
	return fmt.Sprintf("%s, %s OF THE %s DATED %s", joinGrantors(d), title, trustName, trustDate)
}

// MailingInfo falls back to the property address for any part of the
// mailing address the user left blank.
func MailingInfo(d Data) Mailing {
	address := first(d.MailingAddress, d.PropertyAddress)
	city := first(d.MailingCity, d.PropertyCity)
	state := first(d.MailingState, defaultState)
	zip := first(d.MailingZip, d.PropertyZip)

	csz := state
	if city != "" {
		csz = city + ", " + state
	}
	if zip != "" {
		csz += " " + zip
	}
	return Mailing{Name: joinGrantors(d), Address: address, CityStateZip: csz}
}

// LongDate formats t as "January 2, 2006".
func LongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

var trustDateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", "January 2, 2006", "Jan 2, 2006"}

// FormatTrustDate rewrites a recognised date as a long date. Anything else
// is kept as typed.
func FormatTrustDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range trustDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return LongDate(t)
		}
	}
	return s
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// blank prints a fill-in line for empty values.
func blank(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// Render produces the deed in the requested format.
func Render(d Deed, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return RenderText(d)
	case FormatDOCX:
		return RenderDOCX(d)
	case FormatPDF:
		return RenderPDF(d)
	}
	return nil, fmt.Errorf("unsupported deed format %q", f)
}

// DataURL encodes rendered bytes for transport in a JSON or tool response.
func DataURL(mime string, b []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}

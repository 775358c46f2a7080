// Package forms writes logical values into PDF form fields whose exact names
// are not known in advance. Names are resolved through an ordered cascade of
// matching strategies and every write is guarded independently, so a form
// that lacks some fields still gets the rest.
package forms

import (
	"errors"
	"strings"
)

var (
	// ErrFieldNotFound is returned by a Form when no field has the name.
	ErrFieldNotFound = errors.New("form field not found")
	// ErrWrongKind is returned by a Form when the named field cannot take the
	// requested write, e.g. text aimed at a checkbox.
	ErrWrongKind = errors.New("form field has wrong kind")
)

// FieldKind is the closed set of field variants a form adapter reports.
type FieldKind int

const (
	KindOther FieldKind = iota
	KindText
	KindCheckBox
	KindRadioGroup
	KindDropdown
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCheckBox:
		return "checkbox"
	case KindRadioGroup:
		return "radio"
	case KindDropdown:
		return "dropdown"
	default:
		return "other"
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Field is one named, typed entry of a form's catalog.
type Field struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`
}

// Form is the mutable view of a loaded PDF form. Lookups that fail return
// ErrFieldNotFound or ErrWrongKind; neither is fatal to a fill.
type Form interface {
	Fields() []Field
	SetText(name, value string) error
	SetCheck(name string, checked bool) error
}

// Catalog is the ordered field list of a form.
type Catalog []Field

// OfKind returns the fields of kind k in catalog order.
func (c Catalog) OfKind(k FieldKind) Catalog {
	var out Catalog
	for _, f := range c {
		if f.Kind == k {
			out = append(out, f)
		}
	}
	return out
}

// Lookup finds a field by exact name.
func (c Catalog) Lookup(name string) (Field, bool) {
	for _, f := range c {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Counts tallies fields per kind.
func (c Catalog) Counts() map[FieldKind]int {
	out := make(map[FieldKind]int)
	for _, f := range c {
		out[f.Kind]++
	}
	return out
}

// Suggest proposes a field for each common PCOR concept by keyword, the
// same way an operator would scan a new template. Concepts with no match
// are absent from the result.
func (c Catalog) Suggest() map[string]string {
	out := make(map[string]string)
	set := func(key, name string) {
		if _, ok := out[key]; !ok {
			out[key] = name
		}
	}

	for _, f := range c {
		l := strings.ToLower(f.Name)
		has := func(words ...string) bool {
			for _, w := range words {
				if !strings.Contains(l, w) {
					return false
				}
			}
			return true
		}

		switch {
		case has("buyer", "name"):
			set("buyerName", f.Name)
		case has("buyer", "address"):
			set("buyerAddress", f.Name)
		case has("buyer", "phone"):
			set("buyerPhone", f.Name)
		case has("buyer", "email"):
			set("buyerEmail", f.Name)
		case has("seller"), has("transferor"):
			set("sellerName", f.Name)
		case has("apn"), has("parcel"):
			set("apn", f.Name)
		case has("property", "address"):
			set("propertyAddress", f.Name)
		case has("purchase", "price"):
			set("purchasePrice", f.Name)
		case has("down", "payment"):
			set("downPayment", f.Name)
		case has("principal", "residence"):
			set("principalResidence", f.Name)
		}
	}
	return out
}

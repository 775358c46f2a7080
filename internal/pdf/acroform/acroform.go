// Package acroform exposes the interactive form of a PDF as a forms.Form.
// Fields are read with pdfcpu and written back through pdfcpu's JSON form
// filling, so the saved document keeps its original structure.
package acroform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-deed-forms/internal/forms"
)

// maxDepth bounds the field tree walk; real forms nest two or three levels.
const maxDepth = 32

// Field flag bits (PDF 32000-1, 12.7.3.1 and 12.7.4.2).
const (
	flagReadOnly   = 1 << 0
	flagRadio      = 1 << 15
	flagPushButton = 1 << 16
)

// Entry is a terminal field with the details a catalog dump shows.
type Entry struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Kind     forms.FieldKind `json:"kind"`
	Value    string          `json:"value,omitempty"`
	ReadOnly bool            `json:"readOnly,omitempty"`
}

// Document is a loaded form with pending writes. It is not safe for
// concurrent use.
type Document struct {
	data    []byte
	entries []Entry
	byName  map[string]int

	text   map[string]string
	checks map[string]bool
	order  []string
}

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// LoadFile reads and parses the PDF at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	return Load(data)
}

// Load parses a PDF held in memory. A PDF without an AcroForm loads with an
// empty catalog; an unreadable one is an error.
func Load(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PDF buffer")
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), newConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	d := &Document{
		data:   data,
		byName: make(map[string]int),
		text:   make(map[string]string),
		checks: make(map[string]bool),
	}
	if err := d.readCatalog(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) readCatalog(ctx *model.Context) error {
	root, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}

	acroObj, found := root.Find("AcroForm")
	if !found {
		return nil
	}
	acro, err := ctx.DereferenceDict(acroObj)
	if err != nil {
		return fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acro == nil {
		return nil
	}

	fieldsObj, found := acro.Find("Fields")
	if !found {
		return nil
	}
	fields, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for _, f := range fields {
		d.walk(ctx, f, node{}, 0)
	}
	return nil
}

// node carries the attributes a field inherits from its ancestors.
type node struct {
	name  string
	ft    string
	flags int
}

func (d *Document) walk(ctx *model.Context, obj types.Object, parent node, depth int) {
	if depth > maxDepth {
		return
	}
	dict, err := ctx.DereferenceDict(obj)
	if err != nil || dict == nil {
		return
	}

	cur := parent
	if t, found := dict.Find("T"); found {
		if partial, err := ctx.DereferenceStringOrHexLiteral(t, model.V10, nil); err == nil && partial != "" {
			if cur.name == "" {
				cur.name = partial
			} else {
				cur.name = cur.name + "." + partial
			}
		}
	}
	if ft, found := dict.Find("FT"); found {
		if name, err := ctx.DereferenceName(ft, model.V10, nil); err == nil {
			cur.ft = name.Value()
		}
	}
	if ff, found := dict.Find("Ff"); found {
		if flags, err := ctx.DereferenceInteger(ff); err == nil && flags != nil {
			cur.flags = flags.Value()
		}
	}

	// Kids carrying their own T are child fields; kids without one are the
	// widgets of this field.
	if kidsObj, found := dict.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil {
			var childFields []types.Object
			for _, k := range kids {
				if kd, err := ctx.DereferenceDict(k); err == nil && kd != nil {
					if _, hasT := kd.Find("T"); hasT {
						childFields = append(childFields, k)
					}
				}
			}
			if len(childFields) > 0 {
				for _, k := range childFields {
					d.walk(ctx, k, cur, depth+1)
				}
				return
			}
		}
	}

	if cur.name == "" {
		return
	}
	if _, dup := d.byName[cur.name]; dup {
		return
	}

	e := Entry{
		Name:     cur.name,
		Kind:     kindOf(cur.ft, cur.flags),
		ReadOnly: cur.flags&flagReadOnly != 0,
	}
	if ir, ok := obj.(types.IndirectRef); ok {
		e.ID = strconv.Itoa(ir.ObjectNumber.Value())
	}
	if v, found := dict.Find("V"); found {
		e.Value = valueOf(ctx, v, e.Kind)
	}

	d.byName[e.Name] = len(d.entries)
	d.entries = append(d.entries, e)
}

func kindOf(ft string, flags int) forms.FieldKind {
	switch ft {
	case "Btn":
		switch {
		case flags&flagRadio != 0:
			return forms.KindRadioGroup
		case flags&flagPushButton != 0:
			return forms.KindOther
		}
		return forms.KindCheckBox
	case "Tx":
		return forms.KindText
	case "Ch":
		return forms.KindDropdown
	default:
		return forms.KindOther
	}
}

func valueOf(ctx *model.Context, v types.Object, kind forms.FieldKind) string {
	switch kind {
	case forms.KindText, forms.KindDropdown:
		if s, err := ctx.DereferenceStringOrHexLiteral(v, model.V10, nil); err == nil {
			return s
		}
	case forms.KindCheckBox, forms.KindRadioGroup:
		if n, err := ctx.DereferenceName(v, model.V10, nil); err == nil {
			return n.Value()
		}
	}
	return ""
}

// Entries returns the catalog with ids and current values.
func (d *Document) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Fields implements forms.Form.
func (d *Document) Fields() []forms.Field {
	out := make([]forms.Field, len(d.entries))
	for i, e := range d.entries {
		out[i] = forms.Field{Name: e.Name, Kind: e.Kind}
	}
	return out
}

func (d *Document) lookup(name string, want forms.FieldKind) (Entry, error) {
	i, ok := d.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%q: %w", name, forms.ErrFieldNotFound)
	}
	e := d.entries[i]
	if e.Kind != want {
		return Entry{}, fmt.Errorf("%q is a %s field: %w", name, e.Kind, forms.ErrWrongKind)
	}
	return e, nil
}

// SetText implements forms.Form. The write is applied on Save.
func (d *Document) SetText(name, value string) error {
	if _, err := d.lookup(name, forms.KindText); err != nil {
		return err
	}
	if _, seen := d.text[name]; !seen {
		d.order = append(d.order, name)
	}
	d.text[name] = value
	return nil
}

// SetCheck implements forms.Form. The write is applied on Save.
func (d *Document) SetCheck(name string, checked bool) error {
	if _, err := d.lookup(name, forms.KindCheckBox); err != nil {
		return err
	}
	if _, seen := d.checks[name]; !seen {
		d.order = append(d.order, name)
	}
	d.checks[name] = checked
	return nil
}

// Pending reports the number of fields with unsaved writes.
func (d *Document) Pending() int {
	return len(d.order)
}

type fillGroup struct {
	Forms []fillForm `json:"forms"`
}

type fillForm struct {
	TextFields []textField `json:"textfield,omitempty"`
	CheckBoxes []checkBox  `json:"checkbox,omitempty"`
}

type textField struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

type checkBox struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Value  bool   `json:"value"`
	Locked bool   `json:"locked"`
}

// fillJSON renders pending writes in pdfcpu's form JSON layout.
func (d *Document) fillJSON() ([]byte, error) {
	var f fillForm
	for _, name := range d.order {
		e := d.entries[d.byName[name]]
		if v, ok := d.text[name]; ok {
			f.TextFields = append(f.TextFields, textField{ID: e.ID, Name: e.Name, Value: v, Locked: e.ReadOnly})
		}
		if v, ok := d.checks[name]; ok {
			f.CheckBoxes = append(f.CheckBoxes, checkBox{ID: e.ID, Name: e.Name, Value: v, Locked: e.ReadOnly})
		}
	}
	return json.Marshal(fillGroup{Forms: []fillForm{f}})
}

// Save writes the document with all pending writes applied. With nothing
// pending the original bytes are written unchanged.
func (d *Document) Save(w io.Writer) error {
	if len(d.order) == 0 {
		_, err := w.Write(d.data)
		return err
	}

	payload, err := d.fillJSON()
	if err != nil {
		return fmt.Errorf("failed to encode form values: %w", err)
	}
	if err := api.FillForm(bytes.NewReader(d.data), bytes.NewReader(payload), w, newConfig()); err != nil {
		return fmt.Errorf("failed to fill form: %w", err)
	}
	return nil
}

// Bytes returns the saved document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

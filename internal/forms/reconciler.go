package forms

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// minSubstring is the shortest name the substring strategy will match on.
// Shorter fragments ("No", "Y") hit nearly every field.
const minSubstring = 3

// Strategy names the cascade step that resolved a logical key.
type Strategy string

const (
	StrategyExact           Strategy = "exact"
	StrategyCaseInsensitive Strategy = "case-insensitive"
	StrategySubstring       Strategy = "substring"
	StrategyPositional      Strategy = "positional"
	StrategyNone            Strategy = "none"
)

// TextValue asks for Value to be written to the first field matching one of
// Candidates, tried in order.
type TextValue struct {
	Key        string   `json:"key"`
	Candidates []string `json:"candidates"`
	Value      string   `json:"value"`
}

// CheckValue asks for one checkbox to be checked. Index, when set, is the
// zero-based position among the form's checkboxes used once every name
// strategy has failed.
type CheckValue struct {
	Key        string   `json:"key"`
	Candidates []string `json:"candidates"`
	Index      *int     `json:"index,omitempty"`
}

// Request is the full set of writes for one form.
type Request struct {
	Texts  []TextValue  `json:"texts"`
	Checks []CheckValue `json:"checks"`
	// CleanSlate unchecks every checkbox before the requested ones are
	// checked, leaving exactly the requested set checked.
	CleanSlate bool `json:"cleanSlate"`
}

// Assignment records how one logical key was resolved.
type Assignment struct {
	Key        string   `json:"key"`
	Candidates []string `json:"candidates"`
	Strategy   Strategy `json:"strategy"`
	Target     string   `json:"target,omitempty"`
	Value      string   `json:"value"`
}

// FillReport summarises a fill. Partial results are the normal outcome.
type FillReport struct {
	ID          string       `json:"id"`
	Assignments []Assignment `json:"assignments"`
	Written     int          `json:"written"`
	Skipped     int          `json:"skipped"`
	Unchecked   int          `json:"unchecked"`
}

// Matched returns the assignments that reached a field.
func (r *FillReport) Matched() []Assignment {
	var out []Assignment
	for _, a := range r.Assignments {
		if a.Strategy != StrategyNone {
			out = append(out, a)
		}
	}
	return out
}

// Reconciler applies Requests to Forms. It keeps no state between fills.
type Reconciler struct {
	log *slog.Logger
}

// NewReconciler returns a Reconciler; a nil logger discards diagnostics.
func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reconciler{log: logger.With("component", "reconciler")}
}

// fill is the per-call state: the catalog snapshot and the fields already
// written, which no later key may take.
type fill struct {
	r       *Reconciler
	form    Form
	catalog Catalog
	claimed map[string]bool
}

// pending is one logical key still looking for a field.
type pending struct {
	slot       int
	key        string
	candidates []string
	kind       FieldKind
	index      *int
	write      writeFunc
}

// Fill writes every value it can resolve and skips the rest. It never fails
// on an individual field.
//
// Each cascade step runs over every key before the next, looser step starts,
// so a key's exact match is never lost to another key's substring match.
func (r *Reconciler) Fill(form Form, req Request) *FillReport {
	f := &fill{
		r:       r,
		form:    form,
		catalog: Catalog(form.Fields()),
		claimed: make(map[string]bool),
	}
	report := &FillReport{ID: uuid.NewString()}

	if req.CleanSlate {
		report.Unchecked = f.uncheckAll()
	}

	assignments := make([]Assignment, 0, len(req.Texts)+len(req.Checks))
	var queue []*pending

	for _, tv := range req.Texts {
		assignments = append(assignments, Assignment{
			Key: tv.Key, Candidates: tv.Candidates, Value: tv.Value, Strategy: StrategyNone,
		})
		if tv.Value == "" {
			continue
		}
		value := tv.Value
		queue = append(queue, &pending{
			slot:       len(assignments) - 1,
			key:        tv.Key,
			candidates: tv.Candidates,
			kind:       KindText,
			write:      func(name string) error { return f.form.SetText(name, value) },
		})
	}

	for _, cv := range req.Checks {
		assignments = append(assignments, Assignment{
			Key: cv.Key, Candidates: cv.Candidates, Value: "checked", Strategy: StrategyNone,
		})
		queue = append(queue, &pending{
			slot:       len(assignments) - 1,
			key:        cv.Key,
			candidates: cv.Candidates,
			kind:       KindCheckBox,
			index:      cv.Index,
			write:      func(name string) error { return f.form.SetCheck(name, true) },
		})
	}

	steps := []struct {
		strategy Strategy
		run      func(p *pending) string
	}{
		{StrategyExact, f.exact},
		{StrategyCaseInsensitive, f.caseInsensitive},
		{StrategySubstring, f.substring},
		{StrategyPositional, f.positional},
	}
	for _, step := range steps {
		remaining := queue[:0]
		for _, p := range queue {
			if target := step.run(p); target != "" {
				assignments[p.slot].Strategy = step.strategy
				assignments[p.slot].Target = target
				continue
			}
			remaining = append(remaining, p)
		}
		queue = remaining
	}

	for _, p := range queue {
		r.log.Debug("no field matched", "key", p.key, "candidates", p.candidates)
	}
	for _, a := range assignments {
		report.add(a)
	}

	r.log.Debug("form filled",
		"id", report.ID,
		"written", report.Written,
		"skipped", report.Skipped,
		"unchecked", report.Unchecked)

	return report
}

func (r *FillReport) add(a Assignment) {
	r.Assignments = append(r.Assignments, a)
	if a.Strategy == StrategyNone {
		r.Skipped++
		return
	}
	r.Written++
}

func (f *fill) uncheckAll() int {
	n := 0
	for _, fld := range f.catalog.OfKind(KindCheckBox) {
		if err := f.form.SetCheck(fld.Name, false); err != nil {
			f.r.log.Debug("uncheck failed", "field", fld.Name, "error", err)
			continue
		}
		n++
	}
	return n
}

// writeFunc performs one guarded write against a named field.
type writeFunc func(name string) error

// The step functions return the field written, or "" when the step found
// nothing for the key.

func (f *fill) exact(p *pending) string {
	for _, c := range p.candidates {
		if f.try(p, c, StrategyExact) {
			return c
		}
	}
	return ""
}

func (f *fill) caseInsensitive(p *pending) string {
	ofKind := f.catalog.OfKind(p.kind)
	for _, c := range p.candidates {
		for _, fld := range ofKind {
			if strings.EqualFold(fld.Name, c) && f.try(p, fld.Name, StrategyCaseInsensitive) {
				return fld.Name
			}
		}
	}
	return ""
}

func (f *fill) substring(p *pending) string {
	for _, c := range p.candidates {
		for _, fld := range f.catalog {
			if substringMatch(fld.Name, c) && f.try(p, fld.Name, StrategySubstring) {
				return fld.Name
			}
		}
	}
	return ""
}

func (f *fill) positional(p *pending) string {
	if p.index == nil {
		return ""
	}
	boxes := f.catalog.OfKind(KindCheckBox)
	i := *p.index
	if i >= 0 && i < len(boxes) && f.try(p, boxes[i].Name, StrategyPositional) {
		return boxes[i].Name
	}
	return ""
}

// try writes to name unless another key already owns it. Wrong-kind and
// missing-field errors are expected and only logged.
func (f *fill) try(p *pending, name string, s Strategy) bool {
	if name == "" || f.claimed[name] {
		return false
	}
	if err := p.write(name); err != nil {
		switch {
		case errors.Is(err, ErrFieldNotFound), errors.Is(err, ErrWrongKind):
			f.r.log.Debug("candidate rejected", "key", p.key, "field", name, "strategy", s, "error", err)
		default:
			f.r.log.Warn("field write failed", "key", p.key, "field", name, "error", err)
		}
		return false
	}
	f.claimed[name] = true
	return true
}

// substringMatch reports whether either name contains the other as whole
// words, ignoring case. The contained side must be at least minSubstring
// characters, so "Day" never matches inside "Daytime".
func substringMatch(field, candidate string) bool {
	lf, lc := strings.ToLower(field), strings.ToLower(candidate)
	if utf8.RuneCountInString(lc) >= minSubstring && containsWord(lf, lc) {
		return true
	}
	return utf8.RuneCountInString(lf) >= minSubstring && containsWord(lc, lf)
}

// containsWord reports whether needle occurs in s with no letter or digit
// directly before or after it.
func containsWord(s, needle string) bool {
	for from := 0; ; {
		i := strings.Index(s[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)
		if !wordRune(s[:start], true) && !wordRune(s[end:], false) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
}

// wordRune reports whether the rune adjacent to the match, the last rune of
// s when before is true and the first otherwise, is a letter or digit.
func wordRune(s string, before bool) bool {
	if s == "" {
		return false
	}
	var r rune
	if before {
		r, _ = utf8.DecodeLastRuneInString(s)
	} else {
		r, _ = utf8.DecodeRuneInString(s)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

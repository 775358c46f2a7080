package forms

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFamily is used when a template name matches no county family.
const DefaultFamily = "boe-502-a"

//go:embed families.yaml
var builtinFamilies []byte

// CheckSpec locates one checkbox concept: names first, then Index.
type CheckSpec struct {
	Candidates []string `yaml:"candidates" json:"candidates"`
	Index      *int     `yaml:"index,omitempty" json:"index,omitempty"`
}

// Family is the field-name table for one group of PCOR templates.
type Family struct {
	ID          string               `yaml:"id" json:"id"`
	Description string               `yaml:"description" json:"description"`
	Match       []string             `yaml:"match" json:"match"`
	CleanSlate  bool                 `yaml:"clean_slate" json:"cleanSlate"`
	Inherit     string               `yaml:"inherit,omitempty" json:"inherit,omitempty"`
	Text        map[string][]string  `yaml:"text" json:"text"`
	Checks      map[string]CheckSpec `yaml:"checks" json:"checks"`
}

// TextValue builds the reconciler input for a logical text key. Keys the
// family does not list fall back to the key itself as the only candidate.
func (f Family) TextValue(key, value string) TextValue {
	candidates, ok := f.Text[key]
	if !ok {
		candidates = []string{key}
	}
	return TextValue{Key: key, Candidates: candidates, Value: value}
}

// CheckValue builds the reconciler input for a logical checkbox key.
func (f Family) CheckValue(key string) CheckValue {
	spec, ok := f.Checks[key]
	if !ok {
		return CheckValue{Key: key, Candidates: []string{key}}
	}
	return CheckValue{Key: key, Candidates: spec.Candidates, Index: spec.Index}
}

type familyFile struct {
	Families []Family `yaml:"families"`
}

// ParseFamilies decodes a families YAML document.
func ParseFamilies(data []byte) ([]Family, error) {
	if err := validateFamilies(data); err != nil {
		return nil, err
	}

	var file familyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse form families: %w", err)
	}

	seen := make(map[string]bool)
	for i, fam := range file.Families {
		if fam.ID == "" {
			return nil, fmt.Errorf("form family %d has no id", i)
		}
		if seen[fam.ID] {
			return nil, fmt.Errorf("duplicate form family %q", fam.ID)
		}
		seen[fam.ID] = true
	}
	return file.Families, nil
}

// Registry holds resolved families, inheritance applied.
type Registry struct {
	families map[string]Family
	order    []string
}

// DefaultRegistry returns the built-in families.
func DefaultRegistry() (*Registry, error) {
	fams, err := ParseFamilies(builtinFamilies)
	if err != nil {
		return nil, err
	}
	return NewRegistry(fams)
}

// LoadRegistry returns the built-in families with those in the YAML file at
// path replacing built-ins of the same id. An empty path means built-ins only.
func LoadRegistry(path string) (*Registry, error) {
	base, err := ParseFamilies(builtinFamilies)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return NewRegistry(base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form families file: %w", err)
	}
	override, err := ParseFamilies(data)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(base))
	for i, f := range base {
		index[f.ID] = i
	}
	for _, f := range override {
		if i, ok := index[f.ID]; ok {
			base[i] = f
			continue
		}
		index[f.ID] = len(base)
		base = append(base, f)
	}
	return NewRegistry(base)
}

// NewRegistry resolves inheritance between families. Every inherit target
// must exist and chains must not loop.
func NewRegistry(fams []Family) (*Registry, error) {
	raw := make(map[string]Family, len(fams))
	r := &Registry{families: make(map[string]Family, len(fams))}
	for _, f := range fams {
		raw[f.ID] = f
		r.order = append(r.order, f.ID)
	}

	for _, id := range r.order {
		resolved, err := resolveFamily(raw, id, 0)
		if err != nil {
			return nil, err
		}
		r.families[id] = resolved
	}
	return r, nil
}

func resolveFamily(raw map[string]Family, id string, depth int) (Family, error) {
	if depth > len(raw) {
		return Family{}, fmt.Errorf("form family %q has an inheritance cycle", id)
	}
	f, ok := raw[id]
	if !ok {
		return Family{}, fmt.Errorf("unknown form family %q", id)
	}
	if f.Inherit == "" {
		return f, nil
	}

	parent, err := resolveFamily(raw, f.Inherit, depth+1)
	if err != nil {
		return Family{}, err
	}

	text := make(map[string][]string, len(parent.Text)+len(f.Text))
	for k, v := range parent.Text {
		text[k] = v
	}
	for k, v := range f.Text {
		text[k] = v
	}
	checks := make(map[string]CheckSpec, len(parent.Checks)+len(f.Checks))
	for k, v := range parent.Checks {
		checks[k] = v
	}
	for k, v := range f.Checks {
		checks[k] = v
	}
	f.Text, f.Checks = text, checks
	return f, nil
}

// Get returns the family with the given id.
func (r *Registry) Get(id string) (Family, bool) {
	f, ok := r.families[id]
	return f, ok
}

// IDs lists family ids in definition order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Detect picks the family for a template file name. County families are
// checked before the statewide default so "los_angeles_pcor.pdf" is not
// claimed by the generic "pcor" marker.
func (r *Registry) Detect(fileName string) Family {
	base := strings.ToLower(filepath.Base(fileName))
	for _, id := range r.order {
		if id == DefaultFamily {
			continue
		}
		for _, m := range r.families[id].Match {
			if m != "" && strings.Contains(base, strings.ToLower(m)) {
				return r.families[id]
			}
		}
	}
	if f, ok := r.families[DefaultFamily]; ok {
		return f
	}
	return Family{ID: DefaultFamily}
}

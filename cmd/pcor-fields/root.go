package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a3tai/mcp-deed-forms/internal/forms"
	"github.com/a3tai/mcp-deed-forms/internal/pdf/acroform"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatXLSX = "xlsx"
)

type options struct {
	format   string
	output   string
	families string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "pcor-fields [template.pdf]",
		Short: "List the fillable fields of a PCOR template",
		Long: `Loads a PCOR template and prints its AcroForm fields grouped by kind.
Indices are 1-based within each kind; checkbox indices minus one are the
positional fallbacks used in the form family tables.`,
		Example: `  pcor-fields los_angeles_pcor.pdf
  pcor-fields --format json boe-502-a.pdf
  pcor-fields --format xlsx --output fields.xlsx orange_pcor.pdf`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Output format: text, json or xlsx")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (xlsx defaults to <template>-fields.xlsx)")
	cmd.Flags().StringVar(&opts.families, "families", "", "YAML file overriding the built-in form family tables")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log the pdfcpu field walk to stderr")

	return cmd
}

// fieldDump is the catalog of one template.
type fieldDump struct {
	Template  string            `json:"template"`
	Family    string            `json:"family"`
	Total     int               `json:"total"`
	Groups    []fieldGroup      `json:"groups"`
	Suggested map[string]string `json:"suggested"`
}

type fieldGroup struct {
	Kind   forms.FieldKind `json:"kind"`
	Fields []fieldItem     `json:"fields"`
}

type fieldItem struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Value    string `json:"value,omitempty"`
	ReadOnly bool   `json:"readOnly,omitempty"`
}

func run(stdout, stderr io.Writer, template string, opts *options) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	families, err := forms.LoadRegistry(opts.families)
	if err != nil {
		return err
	}

	dump, err := load(template, families, logger)
	if err != nil {
		return err
	}

	switch strings.ToLower(opts.format) {
	case formatText:
		return writeOutput(stdout, opts.output, func(w io.Writer) error {
			printText(w, dump)
			return nil
		})
	case formatJSON:
		return writeOutput(stdout, opts.output, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(dump)
		})
	case formatXLSX:
		out := opts.output
		if out == "" {
			out = strings.TrimSuffix(template, filepath.Ext(template)) + "-fields.xlsx"
		}
		data, err := exportXLSX(dump)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintf(stdout, "Wrote %d fields to %s\n", dump.Total, out)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or xlsx)", opts.format)
	}
}

func load(template string, families *forms.Registry, logger *slog.Logger) (*fieldDump, error) {
	absPath, err := filepath.Abs(template)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	doc, err := acroform.LoadFile(absPath)
	if err != nil {
		return nil, err
	}
	entries := doc.Entries()
	logger.Debug("template loaded", "path", absPath, "fields", len(entries))

	dump := &fieldDump{
		Template:  absPath,
		Family:    families.Detect(filepath.Base(absPath)).ID,
		Total:     len(entries),
		Suggested: forms.Catalog(doc.Fields()).Suggest(),
	}

	byKind := map[forms.FieldKind]*fieldGroup{}
	for _, e := range entries {
		g, ok := byKind[e.Kind]
		if !ok {
			g = &fieldGroup{Kind: e.Kind}
			byKind[e.Kind] = g
		}
		g.Fields = append(g.Fields, fieldItem{
			Index:    len(g.Fields) + 1,
			Name:     e.Name,
			Value:    e.Value,
			ReadOnly: e.ReadOnly,
		})
	}
	for _, kind := range []forms.FieldKind{
		forms.KindText, forms.KindCheckBox, forms.KindRadioGroup, forms.KindDropdown, forms.KindOther,
	} {
		if g, ok := byKind[kind]; ok {
			dump.Groups = append(dump.Groups, *g)
		}
	}
	return dump, nil
}

func printText(w io.Writer, d *fieldDump) {
	fmt.Fprintf(w, "Template: %s\n", d.Template)
	fmt.Fprintf(w, "Form family: %s\n", d.Family)
	fmt.Fprintf(w, "Fields: %d\n", d.Total)

	if d.Total == 0 {
		fmt.Fprintln(w, "\nNo fillable fields found. The template may be flattened or use XFA.")
		return
	}

	for _, g := range d.Groups {
		fmt.Fprintf(w, "\n%s (%d):\n", strings.ToUpper(g.Kind.String()), len(g.Fields))
		for _, f := range g.Fields {
			line := fmt.Sprintf("  %3d. %s", f.Index, f.Name)
			if f.Value != "" {
				line += fmt.Sprintf(" = %q", f.Value)
			}
			if f.ReadOnly {
				line += " (read-only)"
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(d.Suggested) > 0 {
		fmt.Fprintln(w, "\nSuggested mapping:")
		keys := make([]string, 0, len(d.Suggested))
		for k := range d.Suggested {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %-20s %s\n", k, d.Suggested[k])
		}
	}
}

// writeOutput sends render to path when set and to stdout otherwise.
func writeOutput(stdout io.Writer, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

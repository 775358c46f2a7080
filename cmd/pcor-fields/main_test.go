package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-deed-forms/internal/pdf/pdftest"
)

func writeTemplate(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_Text(t *testing.T) {
	path := writeTemplate(t, "los_angeles_pcor.pdf", pdftest.FormPDF())

	out, err := execute(t, path)
	require.NoError(t, err)

	assert.Contains(t, out, "Form family: los-angeles")
	assert.Contains(t, out, "Fields: 5")
	assert.Contains(t, out, "TEXT (2):")
	assert.Contains(t, out, "    1. APN")
	assert.Contains(t, out, `    2. buyer.name = "old"`)
	assert.Contains(t, out, "CHECKBOX (2):")
	assert.Contains(t, out, "    2. Check Box 2")
	assert.Contains(t, out, "DROPDOWN (1):")
	assert.Contains(t, out, "County (read-only)")
	assert.Contains(t, out, "Suggested mapping:")
}

func TestRun_JSON(t *testing.T) {
	path := writeTemplate(t, "boe-502-a.pdf", pdftest.FormPDF())

	out, err := execute(t, "--format", "json", path)
	require.NoError(t, err)

	var dump struct {
		Family string `json:"family"`
		Total  int    `json:"total"`
		Groups []struct {
			Kind   string `json:"kind"`
			Fields []struct {
				Index int    `json:"index"`
				Name  string `json:"name"`
			} `json:"fields"`
		} `json:"groups"`
		Suggested map[string]string `json:"suggested"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &dump))

	assert.Equal(t, "boe-502-a", dump.Family)
	assert.Equal(t, 5, dump.Total)
	require.Len(t, dump.Groups, 3)
	assert.Equal(t, "text", dump.Groups[0].Kind)
	assert.Equal(t, "checkbox", dump.Groups[1].Kind)
	assert.Equal(t, "Check Box 1", dump.Groups[1].Fields[0].Name)
	assert.Equal(t, 1, dump.Groups[1].Fields[0].Index)
	assert.Equal(t, "APN", dump.Suggested["apn"])
}

func TestRun_XLSX(t *testing.T) {
	path := writeTemplate(t, "orange_pcor.pdf", pdftest.FormPDF())

	out, err := execute(t, "-f", "xlsx", path)
	require.NoError(t, err)

	xlsxPath := filepath.Join(filepath.Dir(path), "orange_pcor-fields.xlsx")
	assert.Contains(t, out, "Wrote 5 fields to "+xlsxPath)

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(fieldsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Kind", "Index", "Name", "Value", "Read Only"}, rows[0])
	assert.Equal(t, "text", rows[1][0])
	assert.Equal(t, "APN", rows[1][2])

	suggested, err := f.GetRows(suggestedSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Concept", "Field"}, suggested[0])
	assert.Greater(t, len(suggested), 1)
}

func TestRun_OutputFile(t *testing.T) {
	path := writeTemplate(t, "ventura_pcor.pdf", pdftest.FormPDF())
	dest := filepath.Join(t.TempDir(), "fields.txt")

	out, err := execute(t, "--output", dest, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Form family: ventura")
}

func TestRun_NoFields(t *testing.T) {
	path := writeTemplate(t, "flat.pdf", pdftest.TextPDF("PRELIMINARY CHANGE OF OWNERSHIP REPORT"))

	out, err := execute(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "No fillable fields found")
}

func TestRun_Errors(t *testing.T) {
	path := writeTemplate(t, "form.pdf", pdftest.FormPDF())

	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "--format", "csv", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, err = execute(t, filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)

	_, err = execute(t, "--families", filepath.Join(t.TempDir(), "missing.yaml"), path)
	assert.Error(t, err)
}

package acroform

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-deed-forms/internal/forms"
	"github.com/a3tai/mcp-deed-forms/internal/pdf/pdftest"
)

func TestLoad_Catalog(t *testing.T) {
	doc, err := Load(pdftest.FormPDF())
	require.NoError(t, err)

	assert.Equal(t, []forms.Field{
		{Name: "APN", Kind: forms.KindText},
		{Name: "Check Box 1", Kind: forms.KindCheckBox},
		{Name: "Check Box 2", Kind: forms.KindCheckBox},
		{Name: "buyer.name", Kind: forms.KindText},
		{Name: "County", Kind: forms.KindDropdown},
	}, doc.Fields())

	entries := doc.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, "6", entries[0].ID)
	assert.Equal(t, "old", entries[3].Value)
	assert.Equal(t, "Off", entries[1].Value)
	assert.True(t, entries[4].ReadOnly)
}

func TestLoad_NoAcroForm(t *testing.T) {
	doc, err := Load(pdftest.TextPDF("GRANT DEED"))
	require.NoError(t, err)
	assert.Empty(t, doc.Fields())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(nil)
	assert.Error(t, err)

	_, err = Load([]byte("this is not a pdf"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestDocument_SetErrors(t *testing.T) {
	doc, err := Load(pdftest.FormPDF())
	require.NoError(t, err)

	err = doc.SetText("Nope", "x")
	assert.True(t, errors.Is(err, forms.ErrFieldNotFound))

	err = doc.SetText("Check Box 1", "x")
	assert.True(t, errors.Is(err, forms.ErrWrongKind))

	err = doc.SetCheck("APN", true)
	assert.True(t, errors.Is(err, forms.ErrWrongKind))

	assert.Equal(t, 0, doc.Pending())
}

func TestDocument_FillJSON(t *testing.T) {
	doc, err := Load(pdftest.FormPDF())
	require.NoError(t, err)

	require.NoError(t, doc.SetText("buyer.name", "John Smith"))
	require.NoError(t, doc.SetCheck("Check Box 2", true))
	require.NoError(t, doc.SetText("buyer.name", "Jane Smith"))
	assert.Equal(t, 2, doc.Pending())

	payload, err := doc.fillJSON()
	require.NoError(t, err)

	var got fillGroup
	require.NoError(t, json.Unmarshal(payload, &got))
	require.Len(t, got.Forms, 1)
	assert.Equal(t, []textField{{ID: "9", Name: "buyer.name", Value: "Jane Smith"}}, got.Forms[0].TextFields)
	assert.Equal(t, []checkBox{{ID: "10", Name: "Check Box 2", Value: true}}, got.Forms[0].CheckBoxes)
}

func TestDocument_SaveUnchanged(t *testing.T) {
	data := pdftest.FormPDF()
	path := filepath.Join(t.TempDir(), "form.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf))
	assert.Equal(t, data, buf.Bytes())
}

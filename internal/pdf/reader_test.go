package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-deed-forms/internal/ocr"
	"github.com/a3tai/mcp-deed-forms/internal/pdf/pdftest"
)

// fakeEngine stands in for tesseract or Document AI.
type fakeEngine struct {
	result ocr.Result
	err    error
	calls  int
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(context.Context, string) (ocr.Result, error) {
	f.calls++
	return f.result, f.err
}

var deedLines = []string{
	"RECORDING REQUESTED BY",
	"First American Title",
	"WHEN RECORDED MAIL TO:",
	"John Smith",
	"APN: 1234-56-789",
	"GRANT DEED",
	"FOR A VALUABLE CONSIDERATION, receipt of which is hereby acknowledged,",
	"Robert Brown, a single man",
	"hereby GRANTS to John Smith and Jane Smith, husband and wife as joint tenants",
}

func writePDF(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReader_TextLayer(t *testing.T) {
	path := writePDF(t, t.TempDir(), "deed.pdf", pdftest.TextPDF(deedLines...))
	engine := &fakeEngine{result: ocr.Result{Text: "never used"}}

	res, err := NewReader(1024*1024, engine, 0, nil).ExtractText(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, MethodText, res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "GRANT DEED")
	assert.Contains(t, res.Text, "1234-56-789")
	assert.Zero(t, engine.calls)
}

func TestReader_OCRFallback(t *testing.T) {
	dir := t.TempDir()
	blank := writePDF(t, dir, "scan.pdf", pdftest.BlankPDF())
	thin := writePDF(t, dir, "thin.pdf", pdftest.TextPDF("GRANT DEED"))

	t.Run("blank page uses ocr", func(t *testing.T) {
		engine := &fakeEngine{result: ocr.Result{Text: "GRANT DEED\nAPN: 1234-56-789", Pages: 3}}
		res, err := NewReader(1024*1024, engine, 0, nil).ExtractText(context.Background(), blank)
		require.NoError(t, err)
		assert.Equal(t, "ocr-fake", res.Method)
		assert.Equal(t, 3, res.Pages)
		assert.Equal(t, "GRANT DEED\nAPN: 1234-56-789", res.Text)
		assert.Equal(t, 1, engine.calls)
	})

	t.Run("ocr page count defaults to the pdf", func(t *testing.T) {
		engine := &fakeEngine{result: ocr.Result{Text: "GRANT DEED"}}
		res, err := NewReader(1024*1024, engine, 0, nil).ExtractText(context.Background(), blank)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Pages)
	})

	t.Run("disabled engine and no text", func(t *testing.T) {
		_, err := NewReader(1024*1024, nil, 0, nil).ExtractText(context.Background(), blank)
		assert.True(t, errors.Is(err, ErrNoText))
	})

	t.Run("disabled engine keeps thin layer", func(t *testing.T) {
		res, err := NewReader(1024*1024, ocr.Disabled{}, 0, nil).ExtractText(context.Background(), thin)
		require.NoError(t, err)
		assert.Equal(t, MethodText, res.Method)
		assert.Contains(t, res.Text, "GRANT DEED")
	})

	t.Run("ocr failure without text", func(t *testing.T) {
		engine := &fakeEngine{err: errors.New("tesseract exploded")}
		_, err := NewReader(1024*1024, engine, 0, nil).ExtractText(context.Background(), blank)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tesseract exploded")
		assert.False(t, errors.Is(err, ErrNoText))
	})

	t.Run("ocr failure keeps thin layer", func(t *testing.T) {
		engine := &fakeEngine{err: errors.New("tesseract exploded")}
		res, err := NewReader(1024*1024, engine, 0, nil).ExtractText(context.Background(), thin)
		require.NoError(t, err)
		assert.Equal(t, MethodText, res.Method)
	})

	t.Run("empty ocr result", func(t *testing.T) {
		engine := &fakeEngine{result: ocr.Result{Text: "  \n "}}
		_, err := NewReader(1024*1024, engine, 0, nil).ExtractText(context.Background(), blank)
		assert.True(t, errors.Is(err, ErrNoText))
	})

	t.Run("min text threshold", func(t *testing.T) {
		engine := &fakeEngine{result: ocr.Result{Text: "from ocr"}}
		res, err := NewReader(1024*1024, engine, 5, nil).ExtractText(context.Background(), thin)
		require.NoError(t, err)
		assert.Equal(t, MethodText, res.Method)
		assert.Zero(t, engine.calls)
	})
}

func TestReader_InvalidFiles(t *testing.T) {
	dir := t.TempDir()
	corrupt := writePDF(t, dir, "corrupt.pdf", []byte("this is not a pdf at all"))
	text := writePDF(t, dir, "notes.txt", []byte("GRANT DEED"))
	large := writePDF(t, dir, "large.pdf", make([]byte, 2048))

	r := NewReader(1024, nil, 0, nil)
	ctx := context.Background()

	for name, path := range map[string]string{
		"missing":   filepath.Join(dir, "missing.pdf"),
		"directory": dir,
		"not pdf":   text,
		"too large": large,
		"corrupt":   corrupt,
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.ExtractText(ctx, path)
			assert.Error(t, err)
		})
	}
}

func TestMeaningful(t *testing.T) {
	assert.Equal(t, 0, meaningful(" \n\t.,;"))
	assert.Equal(t, 12, meaningful("APN: 1234-56-789"))
	assert.Equal(t, 3, meaningful("é 一 z"))
}

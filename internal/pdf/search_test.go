package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templatesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"boe-502-a.pdf":             make([]byte, 64),
		"los_angeles_pcor.pdf":      make([]byte, 64),
		"orange county pcor.pdf":    make([]byte, 64),
		"county/ventura_pcor.pdf":   make([]byte, 64),
		".hidden/riverside.pdf":     make([]byte, 64),
		"notes.txt":                 []byte("not a pdf"),
		"empty.pdf":                 {},
		"san_bernardino_pcor.pdf.1": make([]byte, 64),
	}
	for name, content := range files {
		writePDF(t, dir, name, content)
	}
	return dir
}

func TestSearch_FindPDFsLimited(t *testing.T) {
	dir := templatesDir(t)
	search := NewSearch(1024)

	files, err := search.FindPDFsLimited(dir, 0)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
		assert.Equal(t, int64(64), f.Size)
		assert.True(t, filepath.IsAbs(f.Path))
		assert.NotEmpty(t, f.ModifiedTime)
	}
	assert.ElementsMatch(t, []string{
		"boe-502-a.pdf", "los_angeles_pcor.pdf", "orange county pcor.pdf", "ventura_pcor.pdf",
	}, names)

	limited, err := search.FindPDFsLimited(dir, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = search.FindPDFsLimited("", 0)
	assert.Error(t, err)
	_, err = search.FindPDFsLimited(filepath.Join(dir, "missing"), 0)
	assert.Error(t, err)
}

func TestSearch_FindTemplate(t *testing.T) {
	dir := templatesDir(t)
	search := NewSearch(1024)

	tests := []struct {
		query string
		want  string
	}{
		{query: "los_angeles_pcor.pdf", want: "los_angeles_pcor.pdf"},
		{query: "LOS_ANGELES_PCOR", want: "los_angeles_pcor.pdf"},
		{query: "boe-502-a", want: "boe-502-a.pdf"},
		{query: "ventura", want: "ventura_pcor.pdf"},
		{query: "orange pcor", want: "orange county pcor.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := search.FindTemplate(dir, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}

	_, err := search.FindTemplate(dir, "riverside")
	assert.Error(t, err, "hidden directories are not searched")
	_, err = search.FindTemplate(dir, "")
	assert.Error(t, err)
}

func TestSearch_SkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	outside := writePDF(t, t.TempDir(), "secret.pdf", make([]byte, 64))
	if err := os.Symlink(outside, filepath.Join(dir, "link.pdf")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	files, err := NewSearch(1024).FindPDFsLimited(dir, 0)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSplitIntoWords(t *testing.T) {
	assert.Equal(t, []string{"los", "angeles", "pcor", "2024"}, splitIntoWords("Los_Angeles-PCOR (2024)"))
	assert.Empty(t, splitIntoWords(" _-."))
}

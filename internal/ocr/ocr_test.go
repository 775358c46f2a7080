package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeRunner writes pages pngs for pdftoppm and answers tesseract from a
// table keyed by image base name.
type fakeRunner struct {
	pages    int
	text     map[string]string
	failRast bool
	calls    []call
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{name, args})
	switch name {
	case "pdftoppm":
		if f.failRast {
			return nil, []byte("Syntax Error"), errors.New("exit status 1")
		}
		prefix := args[len(args)-1]
		for i := 1; i <= f.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		txt, ok := f.text[filepath.Base(args[0])]
		if !ok {
			return nil, []byte("Error in pixReadStream"), errors.New("exit status 1")
		}
		return []byte(txt), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected command %s", name)
}

func TestNew(t *testing.T) {
	e, err := New(Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, EngineNone, e.Name())
	_, err = e.Recognize(context.Background(), "x.pdf")
	assert.True(t, errors.Is(err, ErrEngineDisabled))

	e, err = New(Config{Engine: "Tesseract"}, nil)
	require.NoError(t, err)
	assert.Equal(t, EngineTesseract, e.Name())

	_, err = New(Config{Engine: EngineDocumentAI}, nil)
	assert.Error(t, err, "project and processor are required")

	e, err = New(Config{Engine: EngineDocumentAI, Project: "p", Processor: "abc"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "projects/p/locations/us/processors/abc", e.(*DocumentAIEngine).ProcessorName())

	_, err = New(Config{Engine: "abbyy"}, nil)
	assert.Error(t, err)
}

func TestTesseract_Recognize(t *testing.T) {
	r := &fakeRunner{pages: 11, text: map[string]string{}}
	for i := 1; i <= 11; i++ {
		r.text[fmt.Sprintf("page-%d.png", i)] = fmt.Sprintf(" text %d \n", i)
	}
	delete(r.text, "page-2.png")

	e := NewTesseractEngine(Config{DPI: 400}, nil).WithRunner(r)
	res, err := e.Recognize(context.Background(), "/deeds/scan.pdf")
	require.NoError(t, err)

	assert.Equal(t, 11, res.Pages)
	assert.True(t, strings.HasPrefix(res.Text, "text 1\n\ntext 3\n\n"), res.Text)
	assert.True(t, strings.HasSuffix(res.Text, "text 10\n\ntext 11"), res.Text)

	require.NotEmpty(t, r.calls)
	assert.Equal(t, "pdftoppm", r.calls[0].name)
	assert.Equal(t, []string{"-r", "400", "-png", "/deeds/scan.pdf"}, r.calls[0].args[:4])
	assert.Equal(t, []string{"stdout", "-l", "eng", "--psm", "6"}, r.calls[1].args[1:])
}

func TestTesseract_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := NewTesseractEngine(Config{}, nil).WithRunner(&fakeRunner{failRast: true}).Recognize(ctx, "a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Syntax Error")

	_, err = NewTesseractEngine(Config{}, nil).WithRunner(&fakeRunner{}).Recognize(ctx, "a.pdf")
	assert.Error(t, err, "no pages rendered")

	_, err = NewTesseractEngine(Config{}, nil).WithRunner(&fakeRunner{pages: 2}).Recognize(ctx, "a.pdf")
	assert.Error(t, err, "every page failed")
}

func TestTesseract_MaxPages(t *testing.T) {
	r := &fakeRunner{pages: 3, text: map[string]string{"page-1.png": "one", "page-2.png": "two", "page-3.png": "three"}}
	res, err := NewTesseractEngine(Config{MaxPages: 2}, nil).WithRunner(r).Recognize(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "one\n\ntwo", res.Text)
	assert.Equal(t, 2, res.Pages)
}

func TestDocumentAI_Recognize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	e, err := NewDocumentAIEngine(Config{Project: "p", Location: "eu", Processor: "ocr1"}, nil)
	require.NoError(t, err)

	var got *documentaipb.ProcessRequest
	e.process = func(_ context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
		got = req
		return &documentaipb.Document{
			Text:  "GRANT DEED\nAPN: 1234-56-789",
			Pages: []*documentaipb.Document_Page{{PageNumber: 1}, {PageNumber: 2}},
		}, nil
	}

	res, err := e.Recognize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "GRANT DEED\nAPN: 1234-56-789", res.Text)
	assert.Equal(t, 2, res.Pages)

	require.NotNil(t, got)
	assert.Equal(t, "projects/p/locations/eu/processors/ocr1", got.Name)
	assert.Equal(t, "application/pdf", got.GetRawDocument().GetMimeType())
	assert.Equal(t, []byte("%PDF-1.4"), got.GetRawDocument().GetContent())
}

func TestDocumentAI_Failures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	e, err := NewDocumentAIEngine(Config{Project: "p", Processor: "ocr1"}, nil)
	require.NoError(t, err)

	e.process = func(context.Context, *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
		return &documentaipb.Document{}, nil
	}
	_, err = e.Recognize(context.Background(), path)
	assert.Error(t, err)

	e.process = func(context.Context, *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
		return nil, errors.New("permission denied")
	}
	_, err = e.Recognize(context.Background(), path)
	assert.ErrorContains(t, err, "permission denied")

	_, err = e.Recognize(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

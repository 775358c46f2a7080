package pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-deed-forms/internal/ocr"
)

// MethodText marks text read from the PDF's own text layer.
const MethodText = "pdf-text"

// DefaultMinText is the number of meaningful characters below which a text
// layer is treated as missing.
const DefaultMinText = 50

// ErrNoText is returned when neither the text layer nor OCR yields text.
var ErrNoText = errors.New("no text content could be extracted from PDF")

// Reader handles PDF text acquisition: the text layer first, OCR when the
// layer is too thin to hold a deed.
type Reader struct {
	validator   *Validator
	engine      ocr.Engine
	minText     int
	maxTextSize int
	logger      *slog.Logger
}

// NewReader creates a reader. A nil engine disables OCR.
func NewReader(maxFileSize int64, engine ocr.Engine, minText int, logger *slog.Logger) *Reader {
	if engine == nil {
		engine = ocr.Disabled{}
	}
	if minText <= 0 {
		minText = DefaultMinText
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		validator:   NewValidator(maxFileSize),
		engine:      engine,
		minText:     minText,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		logger:      logger,
	}
}

// ExtractText returns the text of the PDF at path. Files that cannot be
// opened at all fail; a thin text layer falls back to the OCR engine.
func (r *Reader) ExtractText(ctx context.Context, path string) (TextResult, error) {
	if _, err := r.validator.ValidateFile(path); err != nil {
		return TextResult{}, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return TextResult{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	layer := TextResult{
		Text:   r.extractTextContent(pdfReader),
		Pages:  pdfReader.NumPage(),
		Method: MethodText,
	}
	if meaningful(layer.Text) >= r.minText {
		return layer, nil
	}

	r.logger.Debug("text layer too thin, trying OCR",
		"path", path, "chars", meaningful(layer.Text), "min", r.minText, "engine", r.engine.Name())

	res, err := r.engine.Recognize(ctx, path)
	switch {
	case err == nil && strings.TrimSpace(res.Text) != "":
		pages := res.Pages
		if pages == 0 {
			pages = layer.Pages
		}
		return TextResult{Text: res.Text, Pages: pages, Method: "ocr-" + r.engine.Name()}, nil
	case err != nil && !errors.Is(err, ocr.ErrEngineDisabled):
		if strings.TrimSpace(layer.Text) == "" {
			return TextResult{}, fmt.Errorf("ocr failed: %w", err)
		}
		r.logger.Warn("ocr failed, keeping text layer", "path", path, "error", err)
	}

	if strings.TrimSpace(layer.Text) == "" {
		return TextResult{}, ErrNoText
	}
	return layer, nil
}

// extractTextContent joins the plain text of every page with blank lines.
func (r *Reader) extractTextContent(pdfReader *pdf.Reader) string {
	var builder strings.Builder
	totalLength := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			r.logger.Debug("page text failed", "page", pageNum, "error", err)
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			if remaining := r.maxTextSize - totalLength; remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			break
		}

		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(content)
		totalLength += len(content)
	}

	return builder.String()
}

// meaningful counts letters and digits.
func meaningful(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Package ocr recognizes text in scanned deeds that carry no usable text
// layer. Engines are selected by name from configuration.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Engine names accepted in configuration.
const (
	EngineNone       = "none"
	EngineTesseract  = "tesseract"
	EngineDocumentAI = "documentai"
)

// ErrEngineDisabled is returned by the engine configured as "none".
var ErrEngineDisabled = errors.New("ocr engine disabled")

// Result is the recognized text of a whole document.
type Result struct {
	Text  string
	Pages int
}

// Engine turns a PDF on disk into text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, path string) (Result, error)
}

type Config struct {
	Engine string

	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Lang      string // default "eng"
	DPI       int    // rasterization DPI, default 300
	PSM       int    // tesseract page segmentation mode, default 6
	MaxPages  int    // 0 = no limit

	Project         string
	Location        string
	Processor       string
	CredentialsFile string
}

// New returns the engine named by cfg.Engine.
func New(cfg Config, logger *slog.Logger) (Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "", EngineNone:
		return Disabled{}, nil
	case EngineTesseract:
		return NewTesseractEngine(cfg, logger), nil
	case EngineDocumentAI:
		return NewDocumentAIEngine(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown ocr engine %q (want %s, %s or %s)",
			cfg.Engine, EngineNone, EngineTesseract, EngineDocumentAI)
	}
}

// Disabled is the engine used when OCR is turned off.
type Disabled struct{}

func (Disabled) Name() string { return EngineNone }

func (Disabled) Recognize(context.Context, string) (Result, error) {
	return Result{}, ErrEngineDisabled
}

package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// TesseractEngine rasterizes each page with pdftoppm and recognizes it with
// tesseract.
type TesseractEngine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewTesseractEngine(cfg Config, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	return &TesseractEngine{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner replaces the command runner.
func (e *TesseractEngine) WithRunner(r Runner) *TesseractEngine {
	e.runner = r
	return e
}

func (e *TesseractEngine) Name() string { return EngineTesseract }

// Recognize renders the document into a temporary directory and joins the
// per-page text with blank lines. A page that fails recognition is skipped;
// a document where every page fails is an error.
func (e *TesseractEngine) Recognize(ctx context.Context, path string) (Result, error) {
	tmpDir, err := os.MkdirTemp("", "deed-ocr-*")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove scratch directory", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return Result{}, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	images, _ := filepath.Glob(prefix + "-*.png")
	sortPages(images)
	if e.cfg.MaxPages > 0 && len(images) > e.cfg.MaxPages {
		images = images[:e.cfg.MaxPages]
	}
	if len(images) == 0 {
		return Result{}, fmt.Errorf("pdftoppm rendered no pages")
	}

	var pages []string
	for _, img := range images {
		txt, err := e.recognizePage(ctx, img)
		if err != nil {
			e.logger.Debug("page recognition failed", "image", filepath.Base(img), "error", err)
			continue
		}
		pages = append(pages, strings.TrimSpace(txt))
	}
	if len(pages) == 0 {
		return Result{}, fmt.Errorf("tesseract recognized no pages of %d", len(images))
	}

	return Result{Text: strings.Join(pages, "\n\n"), Pages: len(images)}, nil
}

func (e *TesseractEngine) recognizePage(ctx context.Context, img string) (string, error) {
	// tesseract <file> stdout -l <lang> --psm 6
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, img, "stdout", "-l", e.cfg.Lang, "--psm", strconv.Itoa(e.cfg.PSM))
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}

// sortPages orders page-N.png by N; pdftoppm zero-pads only when the page
// count needs it, so plain string order breaks past page 9 in some builds.
func sortPages(images []string) {
	num := func(p string) int {
		base := strings.TrimSuffix(filepath.Base(p), ".png")
		n, _ := strconv.Atoi(base[strings.LastIndex(base, "-")+1:])
		return n
	}
	sort.SliceStable(images, func(i, j int) bool { return num(images[i]) < num(images[j]) })
}

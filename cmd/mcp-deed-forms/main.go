package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/mcp-deed-forms/internal/config"
	"github.com/a3tai/mcp-deed-forms/internal/forms"
	"github.com/a3tai/mcp-deed-forms/internal/mcp"
	"github.com/a3tai/mcp-deed-forms/internal/ocr"
	"github.com/a3tai/mcp-deed-forms/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newLogger builds the process logger. Logs always go to w, never stdout:
// in stdio mode stdout carries the MCP protocol.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsServerMode() {
		opts.AddSource = cfg.IsDebug()
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newServer wires the OCR engine, form families and service into an MCP
// server.
func newServer(cfg *config.Config, logger *slog.Logger) (*mcp.Server, error) {
	engine, err := ocr.New(cfg.OCRConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	families, err := forms.LoadRegistry(cfg.FamiliesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load form families: %w", err)
	}

	pdfService, err := pdf.NewService(pdf.Options{
		Workspace:    cfg.Workspace,
		TemplatesDir: cfg.TemplatesDir,
		MaxFileSize:  cfg.MaxFileSize,
		MinText:      cfg.MinText,
		County:       cfg.County,
		OCR:          engine,
		Families:     families,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	return mcp.NewServer(cfg, pdfService, logger)
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger *slog.Logger) int {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()

		if err := <-serverErrCh; err != nil {
			logger.Error("server shutdown with error", "error", err)
			return 1
		}

	case err := <-serverErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server, logger *slog.Logger) int {
	// The parent process controls our lifecycle; Run returns when stdin closes.
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		return 1
	}
	return 0
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("starting", "config", cfg.String())

	server, err := newServer(cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var code int
	if cfg.IsServerMode() {
		code = runServerMode(ctx, cancel, server, logger)
	} else {
		code = runStdioMode(ctx, server, logger)
	}
	cancel()
	os.Exit(code)
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Deed Forms\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}

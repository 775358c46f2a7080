package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// processFunc sends one request to a Document AI processor.
type processFunc func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error)

// DocumentAIEngine sends the whole PDF to a Google Document AI OCR
// processor. Credentials come from CredentialsFile or, when empty, from
// GOOGLE_APPLICATION_CREDENTIALS.
type DocumentAIEngine struct {
	cfg     Config
	process processFunc
	logger  *slog.Logger
}

func NewDocumentAIEngine(cfg Config, logger *slog.Logger) (*DocumentAIEngine, error) {
	if cfg.Project == "" || cfg.Processor == "" {
		return nil, fmt.Errorf("documentai engine needs a project and a processor id")
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &DocumentAIEngine{cfg: cfg, logger: logger}
	e.process = e.callProcessor
	return e, nil
}

func (e *DocumentAIEngine) Name() string { return EngineDocumentAI }

// ProcessorName is the resource name requests are sent to.
func (e *DocumentAIEngine) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", e.cfg.Project, e.cfg.Location, e.cfg.Processor)
}

func (e *DocumentAIEngine) Recognize(ctx context.Context, path string) (Result, error) {
	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	req := &documentaipb.ProcessRequest{
		Name: e.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
	}

	doc, err := e.process(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("documentai: %w", err)
	}
	if doc == nil || doc.GetText() == "" {
		return Result{}, fmt.Errorf("documentai returned no text")
	}

	e.logger.Debug("documentai ok", "processor", req.Name, "pages", len(doc.GetPages()), "chars", len(doc.GetText()))
	return Result{Text: doc.GetText(), Pages: len(doc.GetPages())}, nil
}

func (e *DocumentAIEngine) callProcessor(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", e.cfg.Location)),
	}
	if e.cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(e.cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return resp.GetDocument(), nil
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-deed-forms/internal/config"
	"github.com/a3tai/mcp-deed-forms/internal/deed"
	"github.com/a3tai/mcp-deed-forms/internal/descriptions"
	"github.com/a3tai/mcp-deed-forms/internal/forms"
	"github.com/a3tai/mcp-deed-forms/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		logger:     logger,
	}
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	deedExtractTool := mcp.NewTool(
		"deed_extract",
		mcp.WithDescription(descriptions.DeedExtractDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the deed PDF, absolute or relative to the workspace"),
		),
	)
	s.mcpServer.AddTool(deedExtractTool, s.handleDeedExtract)

	formFieldsTool := mcp.NewTool(
		"form_fields",
		mcp.WithDescription(descriptions.FormFieldsDescription),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("Template path, or a file name in the templates directory"),
		),
	)
	s.mcpServer.AddTool(formFieldsTool, s.handleFormFields)

	pcorFillTool := mcp.NewTool(
		"pcor_fill",
		mcp.WithDescription(descriptions.PCORFillDescription),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("Template path, or a file name in the templates directory"),
		),
		mcp.WithString("deed_path",
			mcp.Description("Deed PDF to read owners, property and APN from"),
		),
		mcp.WithObject("facts",
			mcp.Description("Deed facts from an earlier deed_extract call; used instead of deed_path"),
		),
		mcp.WithObject("transaction",
			mcp.Description("Buyer, seller, mailing address, transfer date, price and checkbox answers"),
		),
		mcp.WithString("family",
			mcp.Description("Form family id; detected from the template name when empty"),
		),
		mcp.WithString("output",
			mcp.Description("Where to save the filled PDF inside the workspace"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Report the field assignments without writing a file"),
		),
	)
	s.mcpServer.AddTool(pcorFillTool, s.handlePCORFill)

	trustDeedTool := mcp.NewTool(
		"trust_deed_generate",
		mcp.WithDescription(descriptions.TrustDeedGenerateDescription),
		mcp.WithObject("data",
			mcp.Description("Grantors, trust name and date, property, APN, legal description, mailing address, county"),
		),
		mcp.WithString("deed_path",
			mcp.Description("Deed PDF used to prefill blank fields"),
		),
		mcp.WithString("format",
			mcp.Description("pdf (default), docx or txt"),
			mcp.Enum("pdf", "docx", "txt"),
		),
		mcp.WithString("output",
			mcp.Description("Where to save the deed inside the workspace"),
		),
	)
	s.mcpServer.AddTool(trustDeedTool, s.handleTrustDeedGenerate)

	serverInfoTool := mcp.NewTool(
		"server_info",
		mcp.WithDescription(descriptions.ServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleDeedExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.DeedExtract(ctx, pdf.DeedExtractRequest{Path: path})
	if err != nil {
		return s.toolError("deed_extract", err), nil
	}

	return mcp.NewToolResultText(formatDeedExtractResult(result)), nil
}

func (s *Server) handleFormFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, err := request.RequireString("template")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.FormFields(pdf.FormFieldsRequest{Template: template})
	if err != nil {
		return s.toolError("form_fields", err), nil
	}

	return mcp.NewToolResultText(formatFormFieldsResult(result)), nil
}

func (s *Server) handlePCORFill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, err := request.RequireString("template")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	req := pdf.PCORFillRequest{
		Template: template,
		DeedPath: stringArg(args, "deed_path"),
		Family:   stringArg(args, "family"),
		Output:   stringArg(args, "output"),
		DryRun:   boolArg(args, "dry_run"),
	}
	if err := objectArg(args, "transaction", &req.Transaction); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := args["facts"]; ok {
		var facts deed.Facts
		if err := objectArg(args, "facts", &facts); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		req.Facts = &facts
	}

	result, err := s.pdfService.PCORFill(ctx, req)
	if err != nil {
		return s.toolError("pcor_fill", err), nil
	}

	return mcp.NewToolResultText(formatPCORFillResult(result)), nil
}

func (s *Server) handleTrustDeedGenerate(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()
	req := pdf.TrustDeedRequest{
		DeedPath: stringArg(args, "deed_path"),
		Format:   stringArg(args, "format"),
		Output:   stringArg(args, "output"),
	}
	if err := objectArg(args, "data", &req.Data); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.TrustDeedGenerate(ctx, req)
	if err != nil {
		return s.toolError("trust_deed_generate", err), nil
	}

	return mcp.NewToolResultText(formatTrustDeedResult(result)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(pdf.ServerInfoRequest{}, s.config.ServerName, s.config.Version)
	if err != nil {
		return s.toolError("server_info", err), nil
	}

	return mcp.NewToolResultText(formatServerInfoResult(result)), nil
}

func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.logger.Warn("tool failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(err.Error())
}

// Argument helpers

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func boolArg(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true") || v == "1"
	}
	return false
}

// objectArg decodes an object argument into dst. Clients that cannot send
// nested objects may pass the same JSON as a string.
func objectArg(args map[string]any, key string, dst any) error {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		data = b
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

// Formatting functions

func formatDeedExtractResult(result *pdf.DeedExtractResult) string {
	r := result.Report
	f := r.Facts

	text := fmt.Sprintf("Deed: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d (text from %s)\n", r.Pages, r.Method)
	text += fmt.Sprintf("Document Type: %s\n", f.DocumentType)
	text += fmt.Sprintf("Report ID: %s\n\n", r.ID)

	text += "Parties:\n"
	text += fmt.Sprintf("  Grantee: %s\n", orMissing(f.GranteeRaw))
	text += fmt.Sprintf("  Owner 1: %s\n", orMissing(f.PartyName1))
	text += fmt.Sprintf("  Owner 2: %s\n", orMissing(f.PartyName2))
	text += fmt.Sprintf("  Grantor: %s\n\n", orMissing(f.GrantorRaw))

	text += "Property:\n"
	text += fmt.Sprintf("  Address: %s\n", orMissing(f.PropertyAddress))
	text += fmt.Sprintf("  City: %s\n", orMissing(f.PropertyCity))
	text += fmt.Sprintf("  State: %s\n", orMissing(f.PropertyState))
	text += fmt.Sprintf("  ZIP: %s\n", orMissing(f.PropertyZip))
	text += fmt.Sprintf("  APN: %s\n", orMissing(f.APN))
	text += fmt.Sprintf("  Legal Description: %s\n\n", orMissing(f.LegalDescription))

	text += "Recording:\n"
	text += fmt.Sprintf("  Date: %s\n", orMissing(deref(f.RecordingDate)))
	text += fmt.Sprintf("  Document Number: %s\n", orMissing(deref(f.DocumentNumber)))

	if len(r.Rules) > 0 {
		text += "\nMatched rules:\n"
		for _, k := range sortedKeys(r.Rules) {
			text += fmt.Sprintf("  %s: %s\n", k, r.Rules[k])
		}
	}

	facts, err := json.MarshalIndent(f, "", "  ")
	if err == nil {
		text += "\nFacts JSON (pass as 'facts' to pcor_fill):\n" + string(facts) + "\n"
	}
	return text
}

func formatFormFieldsResult(result *pdf.FormFieldsResult) string {
	text := fmt.Sprintf("Template: %s\n", result.Template)
	text += fmt.Sprintf("Form family: %s\n", result.Family)
	text += fmt.Sprintf("Fields: %d", len(result.Fields))
	if len(result.Counts) > 0 {
		var parts []string
		for _, kind := range []forms.FieldKind{forms.KindText, forms.KindCheckBox, forms.KindRadioGroup, forms.KindDropdown, forms.KindOther} {
			if n := result.Counts[kind]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, kind))
			}
		}
		text += " (" + strings.Join(parts, ", ") + ")"
	}
	text += "\n"

	if len(result.Fields) == 0 {
		return text + "\nThis PDF has no fillable fields.\n"
	}

	text += "\nFields:\n"
	for i, f := range result.Fields {
		text += fmt.Sprintf("%d. [%s] %s", i+1, f.Kind, f.Name)
		if f.Value != "" {
			text += fmt.Sprintf(" = %q", f.Value)
		}
		if f.ReadOnly {
			text += " (read-only)"
		}
		text += "\n"
	}

	if len(result.Suggested) > 0 {
		text += "\nSuggested mapping:\n"
		for _, k := range sortedKeys(result.Suggested) {
			text += fmt.Sprintf("  %s -> %s\n", k, result.Suggested[k])
		}
	}
	return text
}

func formatPCORFillResult(result *pdf.PCORFillResult) string {
	report := result.Report

	text := fmt.Sprintf("Template: %s\n", result.Template)
	text += fmt.Sprintf("Form family: %s\n", result.Family)
	text += fmt.Sprintf("Fill ID: %s\n", report.ID)
	text += fmt.Sprintf("Written: %d, Skipped: %d", report.Written, report.Skipped)
	if report.Unchecked > 0 {
		text += fmt.Sprintf(", Cleared checkboxes: %d", report.Unchecked)
	}
	text += "\n"

	if result.Output != "" {
		text += fmt.Sprintf("Saved: %s (%d bytes)\n", result.Output, result.Size)
	} else {
		text += "Dry run: no file written\n"
	}

	text += "\nAssignments:\n"
	for _, a := range report.Assignments {
		if a.Strategy == forms.StrategyNone {
			continue
		}
		text += fmt.Sprintf("  %s -> %s [%s]", a.Key, a.Target, a.Strategy)
		if a.Value != "" && a.Value != "checked" {
			text += fmt.Sprintf(" = %q", a.Value)
		}
		text += "\n"
	}

	var missed []string
	for _, a := range report.Assignments {
		if a.Strategy == forms.StrategyNone {
			missed = append(missed, a.Key)
		}
	}
	if len(missed) > 0 {
		text += "\nNo matching field for: " + strings.Join(missed, ", ") + "\n"
		text += "Use form_fields to inspect the template, or pass family to pick another field table.\n"
	}

	if result.DataURL != "" {
		text += "\nData URL:\n" + result.DataURL + "\n"
	}
	return text
}

func formatTrustDeedResult(result *pdf.TrustDeedResult) string {
	d := result.Deed

	text := fmt.Sprintf("Trust transfer deed (%s, %d bytes)\n", result.Format, result.Size)
	if result.Output != "" {
		text += fmt.Sprintf("Saved: %s\n", result.Output)
	}
	text += fmt.Sprintf("\nGrantors: %s\n", orMissing(d.Grantors))
	text += fmt.Sprintf("Trustees: %s\n", orMissing(d.Trustees))
	text += fmt.Sprintf("Trust: %s dated %s\n", d.TrustName, d.TrustDate)
	text += fmt.Sprintf("Property: %s\n", orMissing(strings.TrimSpace(d.PropertyAddress+" "+d.PropertyCity)))
	text += fmt.Sprintf("APN: %s\n", orMissing(d.APN))
	text += fmt.Sprintf("County: %s\n", d.County)
	text += fmt.Sprintf("Mail to: %s, %s, %s\n", d.Mailing.Name, d.Mailing.Address, d.Mailing.CityStateZip)
	text += "\nData URL:\n" + result.DataURL + "\n"
	return text
}

func formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Workspace: %s\n", result.Workspace)
	text += fmt.Sprintf("Templates: %s\n", result.TemplatesDir)
	text += fmt.Sprintf("Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("OCR Engine: %s\n", result.OCREngine)
	text += fmt.Sprintf("Form Families: %s\n\n", strings.Join(result.Families, ", "))

	if len(result.Templates) > 0 {
		text += fmt.Sprintf("Templates (%d found):\n", len(result.Templates))
		for i, file := range result.Templates {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more files\n", len(result.Templates)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Templates: none found in the templates directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance
	return text
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not found)"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode", "workspace", s.config.Workspace)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE until ctx is cancelled.
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server", "mode", "sse", "address", addr, "workspace", s.config.Workspace)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !isServerClosed(err) {
			return fmt.Errorf("failed to serve sse: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func isServerClosed(err error) bool {
	return errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled)
}

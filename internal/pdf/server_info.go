package pdf

import (
	"fmt"
	"time"
)

const (
	templateScanLimit   = 100
	templateScanTimeout = 5 * time.Second
)

// availableTools describes each MCP tool for the server_info response.
var availableTools = []ToolInfo{
	{
		Name:        "deed_extract",
		Description: "Extract grantee, grantor, address, APN, legal description and recording data from a deed PDF",
		Usage: "Use this tool on a recorded deed. Scanned deeds without a text layer are sent to the " +
			"configured OCR engine.",
		Parameters: "path (required): path of the deed PDF inside the workspace",
	},
	{
		Name:        "form_fields",
		Description: "List the fillable fields of a PCOR template",
		Usage: "Use this tool to see which fields a template exposes, the form family it will be " +
			"filled as, and a suggested mapping for new templates.",
		Parameters: "template (required): path of the template, or its file name in the templates directory",
	},
	{
		Name:        "pcor_fill",
		Description: "Fill a Preliminary Change of Ownership Report from a deed and transaction data",
		Usage: "Use this tool after deed_extract or with deed_path to produce a filled PCOR. " +
			"Set dry_run to see the field assignments without writing a file.",
		Parameters: "template (required), deed_path (optional), transaction (optional JSON object), " +
			"family (optional), output (optional), dry_run (optional)",
	},
	{
		Name:        "trust_deed_generate",
		Description: "Generate a trust transfer deed into the owners' living trust",
		Usage:       "Use this tool to draft the deed as PDF, DOCX or text, prefilled from a deed when deed_path is given.",
		Parameters: "data (optional JSON object), deed_path (optional), format (optional: pdf, docx, txt), " +
			"output (optional)",
	},
	{
		Name:        "server_info",
		Description: "Get server information, available templates and usage guidance",
		Usage:       "Use this tool first to discover templates and form families.",
		Parameters:  "none",
	},
}

// ServerInfo returns server information, the templates on disk and usage
// guidance. A slow or missing templates directory yields an empty list.
func (s *Service) ServerInfo(_ ServerInfoRequest, serverName, version string) (*ServerInfoResult, error) {
	resultChan := make(chan []FileInfo, 1)
	go func() {
		files, err := s.search.FindPDFsLimited(s.templatesDir, templateScanLimit)
		if err != nil {
			s.logger.Debug("template scan failed", "dir", s.templatesDir, "error", err)
		}
		resultChan <- files
	}()

	templates := []FileInfo{}
	select {
	case files := <-resultChan:
		if files != nil {
			templates = files
		}
	case <-time.After(templateScanTimeout):
		s.logger.Warn("template scan timed out", "dir", s.templatesDir)
	}

	usageGuidance := `Deed Forms MCP Server Usage Guide:

1. EXTRACT THE DEED:
   - Use 'deed_extract' on the recorded deed to read the parties, property and APN
   - Fields that cannot be found come back empty; check them before filing

2. INSPECT THE TEMPLATE:
   - Use 'form_fields' to see a PCOR template's fields and detected form family

3. FILL THE PCOR:
   - Use 'pcor_fill' with the template and either deed_path or extracted facts
   - Transaction data (buyer, price, transfer date, principal residence) overrides deed facts
   - Use dry_run to review assignments before writing

4. DRAFT THE TRUST TRANSFER DEED:
   - Use 'trust_deed_generate' with deed_path to prefill owners, property and legal description

IMPORTANT NOTES:
- Paths are resolved inside the workspace; relative paths are taken from it
- The server can handle files up to ` + fmt.Sprintf("%d", s.maxFileSize/(1024*1024)) + `MB
- OCR engine: ` + s.ocrName

	return &ServerInfoResult{
		ServerName:     serverName,
		Version:        version,
		Workspace:      s.pathValidator.GetConfiguredDirectory(),
		TemplatesDir:   s.templatesDir,
		MaxFileSize:    s.maxFileSize,
		OCREngine:      s.ocrName,
		Families:       s.families.IDs(),
		AvailableTools: availableTools,
		Templates:      templates,
		UsageGuidance:  usageGuidance,
	}, nil
}

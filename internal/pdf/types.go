package pdf

import (
	"github.com/a3tai/mcp-deed-forms/internal/deed"
	"github.com/a3tai/mcp-deed-forms/internal/forms"
	"github.com/a3tai/mcp-deed-forms/internal/pcor"
	"github.com/a3tai/mcp-deed-forms/internal/pdf/acroform"
	"github.com/a3tai/mcp-deed-forms/internal/trustdeed"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// TextResult is the text of a document and how it was obtained.
type TextResult struct {
	Text   string `json:"text"`
	Pages  int    `json:"pages"`
	Method string `json:"method"`
}

// Request Types

// DeedExtractRequest asks for the facts of a recorded deed.
type DeedExtractRequest struct {
	Path string `json:"path"`
}

// FormFieldsRequest asks for the field catalog of a form template. Template
// is a path or the file name of a PDF in the templates directory.
type FormFieldsRequest struct {
	Template string `json:"template"`
}

// PCORFillRequest fills a PCOR template. Facts, when set, are used as
// given; otherwise they are extracted from DeedPath when that is set.
type PCORFillRequest struct {
	Template    string               `json:"template"`
	DeedPath    string               `json:"deedPath,omitempty"`
	Facts       *deed.Facts          `json:"facts,omitempty"`
	Transaction pcor.TransactionData `json:"transaction"`
	Family      string               `json:"family,omitempty"`
	Output      string               `json:"output,omitempty"`
	DryRun      bool                 `json:"dryRun,omitempty"`
}

// TrustDeedRequest generates a trust transfer deed. Empty fields of Data
// are prefilled from the deed at DeedPath when one is given.
type TrustDeedRequest struct {
	DeedPath string         `json:"deedPath,omitempty"`
	Data     trustdeed.Data `json:"data"`
	Format   string         `json:"format,omitempty"`
	Output   string         `json:"output,omitempty"`
}

// ServerInfoRequest represents a request to get server information and capabilities
type ServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// DeedExtractResult is the extraction report of one deed.
type DeedExtractResult struct {
	Path   string      `json:"path"`
	Report deed.Report `json:"report"`
}

// FormFieldsResult is the catalog of a template with the family it would
// be filled as and a heuristic mapping for building new family tables.
type FormFieldsResult struct {
	Template  string                  `json:"template"`
	Family    string                  `json:"family"`
	Fields    []acroform.Entry        `json:"fields"`
	Counts    map[forms.FieldKind]int `json:"counts"`
	Suggested map[string]string       `json:"suggested"`
}

// PCORFillResult reports what was written where.
type PCORFillResult struct {
	Template string            `json:"template"`
	Family   string            `json:"family"`
	Output   string            `json:"output,omitempty"`
	Facts    deed.Facts        `json:"facts"`
	Record   pcor.Record       `json:"record"`
	Report   *forms.FillReport `json:"report"`
	Size     int               `json:"size,omitempty"`
	DataURL  string            `json:"dataUrl,omitempty"`
}

// TrustDeedResult carries the rendered deed.
type TrustDeedResult struct {
	Format  trustdeed.Format `json:"format"`
	Deed    trustdeed.Deed   `json:"deed"`
	Output  string           `json:"output,omitempty"`
	Size    int              `json:"size"`
	DataURL string           `json:"dataUrl"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName     string     `json:"server_name"`
	Version        string     `json:"version"`
	Workspace      string     `json:"workspace"`
	TemplatesDir   string     `json:"templates_dir"`
	MaxFileSize    int64      `json:"max_file_size"`
	OCREngine      string     `json:"ocr_engine"`
	Families       []string   `json:"families"`
	AvailableTools []ToolInfo `json:"available_tools"`
	Templates      []FileInfo `json:"templates"`
	UsageGuidance  string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

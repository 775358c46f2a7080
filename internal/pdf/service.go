package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a3tai/mcp-deed-forms/internal/deed"
	"github.com/a3tai/mcp-deed-forms/internal/forms"
	"github.com/a3tai/mcp-deed-forms/internal/ocr"
	"github.com/a3tai/mcp-deed-forms/internal/pcor"
	"github.com/a3tai/mcp-deed-forms/internal/pdf/acroform"
	"github.com/a3tai/mcp-deed-forms/internal/pdf/security"
	"github.com/a3tai/mcp-deed-forms/internal/trustdeed"
)

// Options configures a Service.
type Options struct {
	Workspace    string
	TemplatesDir string // defaults to <Workspace>/templates
	MaxFileSize  int64
	MinText      int
	County       string
	OCR          ocr.Engine
	Families     *forms.Registry // defaults to the built-in tables
	Logger       *slog.Logger
	Now          func() time.Time
}

// Service runs the deed and form operations against files in the workspace.
// It keeps no per-request state and is safe for concurrent use.
type Service struct {
	maxFileSize   int64
	templatesDir  string
	county        string
	reader        *Reader
	search        *Search
	extractor     *deed.Extractor
	reconciler    *forms.Reconciler
	families      *forms.Registry
	pathValidator *security.PathValidator
	ocrName       string
	logger        *slog.Logger
	now           func() time.Time
}

// NewService creates a new service with all components
func NewService(opts Options) (*Service, error) {
	if opts.MaxFileSize <= 0 {
		return nil, fmt.Errorf("maxFileSize must be greater than 0")
	}

	pathValidator, err := security.NewPathValidator(opts.Workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	families := opts.Families
	if families == nil {
		if families, err = forms.DefaultRegistry(); err != nil {
			return nil, fmt.Errorf("failed to load form families: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	engine := opts.OCR
	if engine == nil {
		engine = ocr.Disabled{}
	}
	templatesDir := opts.TemplatesDir
	if templatesDir == "" {
		templatesDir = filepath.Join(pathValidator.GetConfiguredDirectory(), "templates")
	}
	county := opts.County
	if county == "" {
		county = trustdeed.DefaultCounty
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		maxFileSize:   opts.MaxFileSize,
		templatesDir:  templatesDir,
		county:        county,
		reader:        NewReader(opts.MaxFileSize, engine, opts.MinText, logger),
		search:        NewSearch(opts.MaxFileSize),
		extractor:     deed.NewExtractor(logger),
		reconciler:    forms.NewReconciler(logger),
		families:      families,
		pathValidator: pathValidator,
		ocrName:       engine.Name(),
		logger:        logger,
		now:           now,
	}, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// DeedExtract reads a deed and extracts its facts.
func (s *Service) DeedExtract(ctx context.Context, req DeedExtractRequest) (*DeedExtractResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	text, err := s.reader.ExtractText(ctx, path)
	if err != nil {
		return nil, err
	}

	report := s.extractor.Report(text.Text, text.Pages, text.Method)
	s.logger.Info("deed extracted",
		"path", path, "method", text.Method, "pages", text.Pages,
		"grantee", report.Facts.GranteeRaw != "", "apn", report.Facts.APN != "")
	return &DeedExtractResult{Path: path, Report: report}, nil
}

// FormFields lists the fields of a template.
func (s *Service) FormFields(req FormFieldsRequest) (*FormFieldsResult, error) {
	path, err := s.resolveTemplate(req.Template)
	if err != nil {
		return nil, err
	}

	doc, err := acroform.LoadFile(path)
	if err != nil {
		return nil, err
	}

	catalog := forms.Catalog(doc.Fields())
	return &FormFieldsResult{
		Template:  path,
		Family:    s.families.Detect(filepath.Base(path)).ID,
		Fields:    doc.Entries(),
		Counts:    catalog.Counts(),
		Suggested: catalog.Suggest(),
	}, nil
}

// PCORFill fills a PCOR template from deed facts and transaction data and,
// unless DryRun is set, saves the result inside the workspace.
func (s *Service) PCORFill(ctx context.Context, req PCORFillRequest) (*PCORFillResult, error) {
	path, err := s.resolveTemplate(req.Template)
	if err != nil {
		return nil, err
	}

	fam, err := s.family(req.Family, path)
	if err != nil {
		return nil, err
	}

	var facts deed.Facts
	switch {
	case req.Facts != nil:
		facts = *req.Facts
	case req.DeedPath != "":
		extracted, err := s.DeedExtract(ctx, DeedExtractRequest{Path: req.DeedPath})
		if err != nil {
			return nil, fmt.Errorf("failed to read deed: %w", err)
		}
		facts = extracted.Report.Facts
	}

	doc, err := acroform.LoadFile(path)
	if err != nil {
		return nil, err
	}

	record := pcor.Merge(facts, req.Transaction)
	report := s.reconciler.Fill(doc, pcor.Build(record, fam))

	result := &PCORFillResult{
		Template: path,
		Family:   fam.ID,
		Facts:    facts,
		Record:   record,
		Report:   report,
	}
	if req.DryRun {
		return result, nil
	}

	out, err := s.outputPath(req.Output, path, "filled")
	if err != nil {
		return nil, err
	}
	data, err := doc.Bytes()
	if err != nil {
		return nil, err
	}
	if err := writeFile(out, data); err != nil {
		return nil, err
	}

	s.logger.Info("pcor filled",
		"template", filepath.Base(path), "family", fam.ID, "output", out,
		"written", report.Written, "skipped", report.Skipped)

	result.Output = out
	result.Size = len(data)
	result.DataURL = trustdeed.DataURL("application/pdf", data)
	return result, nil
}

// TrustDeedGenerate renders a trust transfer deed, optionally prefilled
// from an existing deed, and saves it when Output is set.
func (s *Service) TrustDeedGenerate(ctx context.Context, req TrustDeedRequest) (*TrustDeedResult, error) {
	format, err := trustdeed.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	data := req.Data
	if req.DeedPath != "" {
		extracted, err := s.DeedExtract(ctx, DeedExtractRequest{Path: req.DeedPath})
		if err != nil {
			return nil, fmt.Errorf("failed to read deed: %w", err)
		}
		prefill(&data, extracted.Report.Facts)
	}
	if data.County == "" {
		data.County = s.county
	}

	d := trustdeed.Prepare(data, s.now())
	rendered, err := trustdeed.Render(d, format)
	if err != nil {
		return nil, err
	}

	result := &TrustDeedResult{
		Format:  format,
		Deed:    d,
		Size:    len(rendered),
		DataURL: trustdeed.DataURL(format.MIMEType(), rendered),
	}
	if req.Output != "" {
		out, err := s.pathValidator.Resolve(req.Output)
		if err != nil {
			return nil, fmt.Errorf("security validation failed: %w", err)
		}
		if err := writeFile(out, rendered); err != nil {
			return nil, err
		}
		result.Output = out
	}
	return result, nil
}

// prefill copies deed facts into the blank fields of a trust deed. The
// current owners, the deed's grantees, become the grantors.
func prefill(d *trustdeed.Data, f deed.Facts) {
	set := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
	set(&d.Grantor1Name, f.PartyName1)
	set(&d.Grantor2Name, f.PartyName2)
	set(&d.PropertyAddress, f.PropertyAddress)
	set(&d.PropertyCity, f.PropertyCity)
	set(&d.PropertyZip, f.PropertyZip)
	set(&d.APN, f.APN)
	set(&d.LegalDescription, f.LegalDescription)
}

// resolveTemplate accepts a path in the workspace or the name of a PDF in
// the templates directory.
func (s *Service) resolveTemplate(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("template cannot be empty")
	}

	if path, err := s.pathValidator.Resolve(name); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := s.reader.validator.ValidateFile(path); err != nil {
				return "", err
			}
			return path, nil
		}
	} else if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return "", fmt.Errorf("security validation failed: %w", err)
	}

	if err := s.pathValidator.ValidatePath(s.templatesDir); err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	found, err := s.search.FindTemplate(s.templatesDir, name)
	if err != nil {
		return "", err
	}
	return found.Path, nil
}

func (s *Service) family(id, templatePath string) (forms.Family, error) {
	if id == "" {
		return s.families.Detect(filepath.Base(templatePath)), nil
	}
	fam, ok := s.families.Get(id)
	if !ok {
		return forms.Family{}, fmt.Errorf("unknown form family %q (known: %s)", id, strings.Join(s.families.IDs(), ", "))
	}
	return fam, nil
}

// outputPath resolves the requested output or derives one under
// <workspace>/filled from the template name.
func (s *Service) outputPath(requested, template, suffix string) (string, error) {
	if requested == "" {
		base := strings.TrimSuffix(filepath.Base(template), filepath.Ext(template))
		stamp := s.now().Format("20060102-150405")
		requested = filepath.Join(s.pathValidator.GetConfiguredDirectory(), "filled",
			fmt.Sprintf("%s-%s-%s.pdf", base, suffix, stamp))
	}
	out, err := s.pathValidator.Resolve(requested)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

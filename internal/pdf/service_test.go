package pdf

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-deed-forms/internal/deed"
	"github.com/a3tai/mcp-deed-forms/internal/forms"
	"github.com/a3tai/mcp-deed-forms/internal/ocr"
	"github.com/a3tai/mcp-deed-forms/internal/pcor"
	"github.com/a3tai/mcp-deed-forms/internal/pdf/acroform"
	"github.com/a3tai/mcp-deed-forms/internal/pdf/pdftest"
	"github.com/a3tai/mcp-deed-forms/internal/trustdeed"
)

const scannedDeed = "RECORDING REQUESTED BY\nFirst American Title\n\n" +
	"WHEN RECORDED MAIL TO:\nJohn Smith\n123 West Mountain Street\n\n" +
	"RECORDED: March 15, 2021   Document No. 2021-0412345\n" +
	"APN: 1234-56-789\n" +
	"GRANT DEED\n" +
	"FOR A VALUABLE CONSIDERATION, receipt of which is hereby acknowledged,\n" +
	"Robert Brown, a single man\n" +
	"hereby GRANTS to John Smith and Jane Smith, husband and wife as joint tenants\n" +
	"the real property in the City of Glendale, County of Los Angeles, State of California, described as:\n" +
	"Lot 12 of Tract No. 4567, as per map recorded in Book 88 Page 9 of Maps.\n" +
	"Commonly known as: 123 West Mountain Street, Glendale, CA 91201\n"

var fixedNow = time.Date(2024, time.May, 6, 14, 30, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	workspace string
	engine    *fakeEngine
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ws := t.TempDir()
	writePDF(t, ws, "deeds/scan.pdf", pdftest.BlankPDF())
	writePDF(t, ws, "deeds/text.pdf", pdftest.TextPDF(deedLines...))
	writePDF(t, ws, "templates/los_angeles_pcor.pdf", pdftest.FormPDF())
	writePDF(t, ws, "templates/boe-502-a.pdf", pdftest.FormPDF())

	engine := &fakeEngine{result: ocr.Result{Text: scannedDeed, Pages: 1}}
	svc, err := NewService(Options{
		Workspace:   ws,
		MaxFileSize: 1024 * 1024,
		OCR:         engine,
		Now:         func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return fixture{svc: svc, workspace: ws, engine: engine}
}

func TestNewService(t *testing.T) {
	_, err := NewService(Options{Workspace: t.TempDir()})
	assert.Error(t, err, "max file size is required")

	_, err = NewService(Options{MaxFileSize: 1})
	assert.Error(t, err, "workspace is required")

	svc, err := NewService(Options{Workspace: t.TempDir(), MaxFileSize: 1024})
	require.NoError(t, err)
	assert.Equal(t, int64(1024), svc.GetMaxFileSize())
	assert.Equal(t, ocr.EngineNone, svc.ocrName)
	assert.Equal(t, trustdeed.DefaultCounty, svc.county)
	assert.Equal(t, filepath.Join(svc.pathValidator.GetConfiguredDirectory(), "templates"), svc.templatesDir)
}

func TestService_DeedExtract(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	t.Run("scanned deed", func(t *testing.T) {
		res, err := fx.svc.DeedExtract(ctx, DeedExtractRequest{Path: "deeds/scan.pdf"})
		require.NoError(t, err)

		f := res.Report.Facts
		assert.Equal(t, filepath.Join(fx.workspace, "deeds", "scan.pdf"), res.Path)
		assert.Equal(t, "ocr-fake", res.Report.Method)
		assert.Equal(t, "John Smith", f.PartyName1)
		assert.Equal(t, "Jane Smith", f.PartyName2)
		assert.Equal(t, "1234-56-789", f.APN)
		assert.Equal(t, "Glendale", f.PropertyCity)
		assert.Equal(t, deed.DocTypeGrant, f.DocumentType)
		require.NotNil(t, f.DocumentNumber)
		assert.Equal(t, "2021-0412345", *f.DocumentNumber)
	})

	t.Run("text layer", func(t *testing.T) {
		res, err := fx.svc.DeedExtract(ctx, DeedExtractRequest{Path: "deeds/text.pdf"})
		require.NoError(t, err)
		assert.Equal(t, MethodText, res.Report.Method)
		assert.Equal(t, "1234-56-789", res.Report.Facts.APN)
		assert.Contains(t, res.Report.Preview, "GRANT DEED")
	})

	t.Run("outside workspace", func(t *testing.T) {
		outside := writePDF(t, t.TempDir(), "deed.pdf", pdftest.BlankPDF())
		_, err := fx.svc.DeedExtract(ctx, DeedExtractRequest{Path: outside})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "security validation failed")

		_, err = fx.svc.DeedExtract(ctx, DeedExtractRequest{Path: "../deed.pdf"})
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := fx.svc.DeedExtract(ctx, DeedExtractRequest{Path: "deeds/missing.pdf"})
		assert.Error(t, err)
	})
}

func TestService_FormFields(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.FormFields(FormFieldsRequest{Template: "los_angeles_pcor.pdf"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(fx.workspace, "templates", "los_angeles_pcor.pdf"), res.Template)
	assert.Equal(t, "los-angeles", res.Family)
	assert.Len(t, res.Fields, 5)
	assert.Equal(t, 2, res.Counts[forms.KindCheckBox])
	assert.Equal(t, 2, res.Counts[forms.KindText])
	assert.Equal(t, 1, res.Counts[forms.KindDropdown])
	assert.Equal(t, "buyer.name", res.Suggested["buyerName"])
	assert.Equal(t, "APN", res.Suggested["apn"])

	byPath, err := fx.svc.FormFields(FormFieldsRequest{Template: "templates/boe-502-a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, forms.DefaultFamily, byPath.Family)

	_, err = fx.svc.FormFields(FormFieldsRequest{Template: ""})
	assert.Error(t, err)
	_, err = fx.svc.FormFields(FormFieldsRequest{Template: "riverside"})
	assert.Error(t, err)
	_, err = fx.svc.FormFields(FormFieldsRequest{Template: "deeds/text.pdf"})
	require.NoError(t, err, "a template without fields lists nothing")
}

func TestService_PCORFill(t *testing.T) {
	ctx := context.Background()
	yes := true

	t.Run("dry run from deed", func(t *testing.T) {
		fx := newFixture(t)
		res, err := fx.svc.PCORFill(ctx, PCORFillRequest{
			Template:    "los_angeles_pcor.pdf",
			DeedPath:    "deeds/scan.pdf",
			Transaction: pcor.TransactionData{PrincipalResidence: &yes},
			DryRun:      true,
		})
		require.NoError(t, err)

		assert.Equal(t, "los-angeles", res.Family)
		assert.Empty(t, res.Output)
		assert.Empty(t, res.DataURL)
		assert.Equal(t, "1234-56-789", res.Record.APN)
		assert.Equal(t, "John Smith and Jane Smith", res.Record.BuyerName)
		assert.Equal(t, 2, res.Report.Unchecked)

		got := map[string]forms.Assignment{}
		for _, a := range res.Report.Assignments {
			got[a.Key] = a
		}
		assert.Equal(t, forms.StrategyExact, got["apn"].Strategy)
		assert.Equal(t, "APN", got["apn"].Target)
		assert.Equal(t, forms.StrategyPositional, got["principal_residence_yes"].Strategy)
		assert.Equal(t, "Check Box 1", got["principal_residence_yes"].Target)

		_, err = os.Stat(filepath.Join(fx.workspace, "filled"))
		assert.True(t, os.IsNotExist(err), "dry run writes nothing")
	})

	t.Run("saves filled form", func(t *testing.T) {
		fx := newFixture(t)
		facts := deed.Facts{PartyName1: "Ana Ruiz", APN: "5555-01-002", PropertyState: "CA"}
		res, err := fx.svc.PCORFill(ctx, PCORFillRequest{
			Template: "templates/los_angeles_pcor.pdf",
			Facts:    &facts,
		})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(fx.workspace, "filled", "los_angeles_pcor-filled-20240506-143000.pdf"), res.Output)
		assert.True(t, strings.HasPrefix(res.DataURL, "data:application/pdf;base64,"))
		assert.Positive(t, res.Size)
		assert.Zero(t, fx.engine.calls)

		doc, err := acroform.LoadFile(res.Output)
		require.NoError(t, err)
		values := map[string]string{}
		for _, e := range doc.Entries() {
			values[e.Name] = e.Value
		}
		assert.Equal(t, "5555-01-002", values["APN"])
	})

	t.Run("explicit output and family", func(t *testing.T) {
		fx := newFixture(t)
		res, err := fx.svc.PCORFill(ctx, PCORFillRequest{
			Template: "boe-502-a",
			Family:   "los-angeles",
			Facts:    &deed.Facts{APN: "1"},
			Output:   "out/pcor.pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, "los-angeles", res.Family)
		assert.FileExists(t, filepath.Join(fx.workspace, "out", "pcor.pdf"))
	})

	t.Run("errors", func(t *testing.T) {
		fx := newFixture(t)
		_, err := fx.svc.PCORFill(ctx, PCORFillRequest{Template: "boe-502-a", Family: "atlantis"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown form family")

		_, err = fx.svc.PCORFill(ctx, PCORFillRequest{Template: "boe-502-a", DeedPath: "deeds/missing.pdf"})
		assert.Error(t, err)

		_, err = fx.svc.PCORFill(ctx, PCORFillRequest{
			Template: "boe-502-a",
			Facts:    &deed.Facts{APN: "1"},
			Output:   filepath.Join(t.TempDir(), "escape.pdf"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "security validation failed")
	})
}

func TestService_TrustDeedGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("prefilled from deed", func(t *testing.T) {
		fx := newFixture(t)
		res, err := fx.svc.TrustDeedGenerate(ctx, TrustDeedRequest{
			DeedPath: "deeds/scan.pdf",
			Data:     trustdeed.Data{PropertyCity: "Burbank"},
			Format:   "txt",
			Output:   "drafts/trust-deed.txt",
		})
		require.NoError(t, err)

		assert.Equal(t, trustdeed.FormatText, res.Format)
		assert.Equal(t, "John Smith", res.Deed.Grantor1Name)
		assert.Equal(t, "Jane Smith", res.Deed.Grantor2Name)
		assert.Equal(t, "Burbank", res.Deed.PropertyCity, "caller data wins")
		assert.Equal(t, "1234-56-789", res.Deed.APN)
		assert.Equal(t, "SMITH FAMILY LIVING TRUST", res.Deed.TrustName)
		assert.Equal(t, trustdeed.DefaultCounty, res.Deed.County)

		data, err := os.ReadFile(filepath.Join(fx.workspace, "drafts", "trust-deed.txt"))
		require.NoError(t, err)
		assert.Len(t, data, res.Size)
		assert.Contains(t, string(data), "SMITH FAMILY LIVING TRUST")
	})

	t.Run("pdf without output", func(t *testing.T) {
		fx := newFixture(t)
		res, err := fx.svc.TrustDeedGenerate(ctx, TrustDeedRequest{
			Data: trustdeed.Data{Grantor1Name: "Ana Ruiz", County: "Orange"},
		})
		require.NoError(t, err)
		assert.Equal(t, trustdeed.FormatPDF, res.Format)
		assert.Empty(t, res.Output)
		assert.Equal(t, "Orange", res.Deed.County)
		assert.True(t, strings.HasPrefix(res.DataURL, "data:application/pdf;base64,"))
	})

	t.Run("errors", func(t *testing.T) {
		fx := newFixture(t)
		_, err := fx.svc.TrustDeedGenerate(ctx, TrustDeedRequest{Format: "rtf"})
		assert.Error(t, err)

		_, err = fx.svc.TrustDeedGenerate(ctx, TrustDeedRequest{DeedPath: "deeds/missing.pdf"})
		assert.Error(t, err)

		_, err = fx.svc.TrustDeedGenerate(ctx, TrustDeedRequest{Output: "/tmp/../etc/deed.pdf"})
		assert.Error(t, err)
	})
}

func TestPrefill(t *testing.T) {
	d := trustdeed.Data{Grantor1Name: "Kept", APN: " "}
	prefill(&d, deed.Facts{PartyName1: "Dropped", PartyName2: "Second", APN: "1234-56-789", PropertyZip: "91201"})

	assert.Equal(t, "Kept", d.Grantor1Name)
	assert.Equal(t, "Second", d.Grantor2Name)
	assert.Equal(t, "1234-56-789", d.APN)
	assert.Equal(t, "91201", d.PropertyZip)
}

package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-deed-forms/internal/forms"
)

func TestService_ServerInfo(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.svc.ServerInfo(ServerInfoRequest{}, "mcp-deed-forms", "1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "mcp-deed-forms", result.ServerName)
	assert.Equal(t, "1.2.3", result.Version)
	assert.Equal(t, fx.svc.pathValidator.GetConfiguredDirectory(), result.Workspace)
	assert.Equal(t, int64(1024*1024), result.MaxFileSize)
	assert.Equal(t, "fake", result.OCREngine)
	assert.Contains(t, result.Families, forms.DefaultFamily)
	assert.Contains(t, result.Families, "los-angeles")

	var names []string
	for _, f := range result.Templates {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"boe-502-a.pdf", "los_angeles_pcor.pdf"}, names)

	var tools []string
	for _, tool := range result.AvailableTools {
		tools = append(tools, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.NotEmpty(t, tool.Usage)
	}
	assert.Equal(t, []string{"deed_extract", "form_fields", "pcor_fill", "trust_deed_generate", "server_info"}, tools)

	assert.Contains(t, result.UsageGuidance, "1MB")
	assert.Contains(t, result.UsageGuidance, "OCR engine: fake")
}

func TestService_ServerInfoWithoutTemplates(t *testing.T) {
	svc, err := NewService(Options{Workspace: t.TempDir(), MaxFileSize: 10 * 1024 * 1024})
	require.NoError(t, err)

	result, err := svc.ServerInfo(ServerInfoRequest{}, "server", "dev")
	require.NoError(t, err)
	assert.NotNil(t, result.Templates)
	assert.Empty(t, result.Templates)
	assert.Contains(t, result.UsageGuidance, "10MB")
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-deed-forms/internal/ocr"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultOCRDPI      = 300
	DefaultOCRLang     = "eng"
	DefaultMinText     = 50
	DefaultCounty      = "Los Angeles"
	DefaultDocAIRegion = "us"

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "DEED_FORMS"
)

// Config holds all configuration for the deed forms MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Workspace configuration
	Workspace    string
	TemplatesDir string // empty means <Workspace>/templates
	FamiliesFile string // optional YAML override of the form family tables

	// Text acquisition
	OCREngine      string
	OCRDPI         int
	OCRLang        string
	OCRMaxPages    int
	PdftoppmPath   string
	TesseractPath  string
	MinText        int
	DocAIProject   string
	DocAILocation  string
	DocAIProcessor string

	// Trust deed defaults
	County string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio, // Default to stdio mode for MCP compatibility
		Host:          DefaultHost,
		Port:          DefaultPort,
		Workspace:     currentDir,
		OCREngine:     ocr.EngineNone,
		OCRDPI:        DefaultOCRDPI,
		OCRLang:       DefaultOCRLang,
		PdftoppmPath:  "pdftoppm",
		TesseractPath: "tesseract",
		MinText:       DefaultMinText,
		DocAILocation: DefaultDocAIRegion,
		County:        DefaultCounty,
		Version:       "1.0.0",
		ServerName:    "mcp-deed-forms",
		LogLevel:      DefaultLogLevel,
		MaxFileSize:   DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	for _, p := range []*string{&cfg.Workspace, &cfg.TemplatesDir, &cfg.FamiliesFile} {
		if *p == "" {
			continue
		}
		if expandedPath, err := filepath.Abs(*p); err == nil {
			*p = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.Workspace)
	viper.SetDefault("templates", cfg.TemplatesDir)
	viper.SetDefault("families", cfg.FamiliesFile)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("ocr", cfg.OCREngine)
	viper.SetDefault("ocr-dpi", cfg.OCRDPI)
	viper.SetDefault("ocr-lang", cfg.OCRLang)
	viper.SetDefault("ocr-max-pages", cfg.OCRMaxPages)
	viper.SetDefault("pdftoppm", cfg.PdftoppmPath)
	viper.SetDefault("tesseract", cfg.TesseractPath)
	viper.SetDefault("min-text", cfg.MinText)
	viper.SetDefault("docai-project", cfg.DocAIProject)
	viper.SetDefault("docai-location", cfg.DocAILocation)
	viper.SetDefault("docai-processor", cfg.DocAIProcessor)
	viper.SetDefault("county", cfg.County)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.Workspace, "Workspace directory; every deed, template and output must be inside it")
	pflag.String("templates", cfg.TemplatesDir, "Directory of PCOR templates (default <dir>/templates)")
	pflag.String("families", cfg.FamiliesFile, "YAML file overriding the built-in form family tables")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("ocr", cfg.OCREngine, "OCR engine for scanned deeds (none, tesseract, documentai)")
	pflag.Int("ocr-dpi", cfg.OCRDPI, "Rasterization DPI for tesseract")
	pflag.String("ocr-lang", cfg.OCRLang, "Tesseract language")
	pflag.Int("ocr-max-pages", cfg.OCRMaxPages, "Maximum pages sent to tesseract (0 for all)")
	pflag.String("pdftoppm", cfg.PdftoppmPath, "pdftoppm binary")
	pflag.String("tesseract", cfg.TesseractPath, "tesseract binary")
	pflag.Int("min-text", cfg.MinText, "Letters and digits a text layer needs before OCR is skipped")
	pflag.String("docai-project", cfg.DocAIProject, "Google Cloud project of the Document AI processor")
	pflag.String("docai-location", cfg.DocAILocation, "Document AI location (us, eu)")
	pflag.String("docai-processor", cfg.DocAIProcessor, "Document AI processor ID")
	pflag.String("county", cfg.County, "County printed on generated trust transfer deeds")
}

var flagKeys = []string{
	"mode", "host", "port", "dir", "templates", "families", "loglevel", "maxfilesize",
	"ocr", "ocr-dpi", "ocr-lang", "ocr-max-pages", "pdftoppm", "tesseract", "min-text",
	"docai-project", "docai-location", "docai-processor", "county",
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, key := range flagKeys {
		_ = viper.BindPFlag(key, pflag.Lookup(key))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Deed Forms - reads recorded deeds, fills PCOR forms and drafts trust transfer deeds\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/escrow                   "+
			"# stdio mode with custom workspace\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --ocr=tesseract --ocr-dpi=400           # OCR scanned deeds locally\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		for _, key := range flagKeys {
			fmt.Fprintf(os.Stderr, "  %s\n", envName(key))
		}
	}
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.Workspace = viper.GetString("dir")
	cfg.TemplatesDir = viper.GetString("templates")
	cfg.FamiliesFile = viper.GetString("families")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.OCREngine = strings.ToLower(viper.GetString("ocr"))
	cfg.OCRDPI = viper.GetInt("ocr-dpi")
	cfg.OCRLang = viper.GetString("ocr-lang")
	cfg.OCRMaxPages = viper.GetInt("ocr-max-pages")
	cfg.PdftoppmPath = viper.GetString("pdftoppm")
	cfg.TesseractPath = viper.GetString("tesseract")
	cfg.MinText = viper.GetInt("min-text")
	cfg.DocAIProject = viper.GetString("docai-project")
	cfg.DocAILocation = viper.GetString("docai-location")
	cfg.DocAIProcessor = viper.GetString("docai-processor")
	cfg.County = viper.GetString("county")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Workspace == "" {
		return errors.New("workspace directory cannot be empty")
	}

	// Create the workspace if it doesn't exist
	if _, err := os.Stat(c.Workspace); os.IsNotExist(err) {
		if err := os.MkdirAll(c.Workspace, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create workspace directory %s: %w", c.Workspace, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access workspace directory %s: %w", c.Workspace, err)
	}

	if c.FamiliesFile != "" {
		if _, err := os.Stat(c.FamiliesFile); err != nil {
			return fmt.Errorf("cannot read form families file %s: %w", c.FamiliesFile, err)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	switch c.OCREngine {
	case ocr.EngineNone, ocr.EngineTesseract:
	case ocr.EngineDocumentAI:
		if c.DocAIProject == "" || c.DocAIProcessor == "" {
			return errors.New("documentai OCR needs --docai-project and --docai-processor")
		}
	default:
		return fmt.Errorf("invalid ocr engine: %s (must be one of: none, tesseract, documentai)", c.OCREngine)
	}

	if c.OCRDPI < 72 || c.OCRDPI > 1200 {
		return fmt.Errorf("ocr dpi must be between 72 and 1200, got %d", c.OCRDPI)
	}
	if c.MinText < 0 {
		return errors.New("min-text cannot be negative")
	}

	return nil
}

// OCRConfig returns the settings for ocr.New.
func (c *Config) OCRConfig() ocr.Config {
	return ocr.Config{
		Engine:    c.OCREngine,
		Pdftoppm:  c.PdftoppmPath,
		Tesseract: c.TesseractPath,
		Lang:      c.OCRLang,
		DPI:       c.OCRDPI,
		MaxPages:  c.OCRMaxPages,
		Project:   c.DocAIProject,
		Location:  c.DocAILocation,
		Processor: c.DocAIProcessor,
	}
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Workspace: %s, Templates: %s, LogLevel: %s, "+
		"MaxFileSize: %d, OCR: %s}",
		c.Mode, c.Host, c.Port, c.Workspace, c.TemplatesDir, c.LogLevel, c.MaxFileSize, c.OCREngine)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

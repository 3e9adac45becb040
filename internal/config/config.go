package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "parcelas.yaml"

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid configuration")

// Output formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Config represents the top-level parcelas.yaml configuration.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Reconcile  ReconcileConfig  `yaml:"reconcile"`
	Log        LogConfig        `yaml:"log"`
}

// InputConfig locates the documents to extract.
type InputConfig struct {
	PDFDir        string `yaml:"pdf_dir"`
	CompaniesFile string `yaml:"companies_file,omitempty"` // optional CNPJ allow-list
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	Format     string `yaml:"format"` // xlsx or csv
	JSONBackup bool   `yaml:"json_backup"`
}

// ExtractionConfig toggles optional extraction behavior.
type ExtractionConfig struct {
	IncludePendingDebt bool `yaml:"include_pending_debt"`
	GroupByCompany     bool `yaml:"group_by_company"`
	Workers            int  `yaml:"workers"`
}

// ReconcileConfig names the roster files.
type ReconcileConfig struct {
	WantedFile   string `yaml:"wanted_file,omitempty"`
	UniverseFile string `yaml:"universe_file,omitempty"`
	OutputFile   string `yaml:"output_file"`
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads a parcelas.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			PDFDir: "pdfs",
		},
		Output: OutputConfig{
			Dir:        "output",
			Format:     FormatXLSX,
			JSONBackup: true,
		},
		Extraction: ExtractionConfig{
			Workers: 1,
		},
		Reconcile: ReconcileConfig{
			OutputFile: "empresas_filtradas.xlsx",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Input.PDFDir) == "" {
		problems = append(problems, "input.pdf_dir is required")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		problems = append(problems, "output.dir is required")
	}
	switch c.Output.Format {
	case FormatXLSX, FormatCSV:
	default:
		problems = append(problems, fmt.Sprintf("output.format %q must be xlsx or csv", c.Output.Format))
	}
	if c.Extraction.Workers < 0 {
		problems = append(problems, "extraction.workers must not be negative")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be console or json", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Input.CompaniesFile = "empresas.xlsx"
	cfg.Output.Format = FormatCSV
	cfg.Extraction.IncludePendingDebt = true
	cfg.Extraction.Workers = 4
	cfg.Reconcile.WantedFile = "desejadas.xlsx"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "pdfs", cfg.Input.PDFDir)
	assert.Empty(t, cfg.Input.CompaniesFile)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, FormatXLSX, cfg.Output.Format)
	assert.True(t, cfg.Output.JSONBackup)
	assert.False(t, cfg.Extraction.IncludePendingDebt)
	assert.False(t, cfg.Extraction.GroupByCompany)
	assert.Equal(t, 1, cfg.Extraction.Workers)
	assert.Equal(t, "empresas_filtradas.xlsx", cfg.Reconcile.OutputFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("input:\n  pdf_dir: relatorios\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "relatorios", cfg.Input.PDFDir)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, FormatXLSX, cfg.Output.Format)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("input: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no pdf dir", func(c *Config) { c.Input.PDFDir = " " }, "input.pdf_dir"},
		{"no output dir", func(c *Config) { c.Output.Dir = "" }, "output.dir"},
		{"bad format", func(c *Config) { c.Output.Format = "ods" }, "output.format"},
		{"negative workers", func(c *Config) { c.Extraction.Workers = -1 }, "extraction.workers"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, Default())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "pdf_dir: pdfs")
	assert.Contains(t, contents, "format: xlsx")
	assert.Contains(t, contents, "include_pending_debt: false")
	assert.NotContains(t, contents, "companies_file")
}

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/parcelas/internal/config"
	"github.com/cleared-dev/parcelas/internal/logging"
	"github.com/cleared-dev/parcelas/internal/runlog"
)

// project is the resolved configuration of one command invocation.
type project struct {
	cfg  *config.Config
	root string // directory holding the config file, empty without one
	log  zerolog.Logger
	run  string // uuid of this invocation
}

// loadProject reads the config named by --config, or ./parcelas.yaml when it
// exists, or the defaults. Relative paths in the file are resolved against
// the file's directory.
func loadProject(cmd *cobra.Command) (*project, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.FileName
	}

	cfg, err := config.Load(path)
	root := filepath.Dir(path)
	switch {
	case err == nil:
		cfg.Input.PDFDir = resolvePath(root, cfg.Input.PDFDir)
		cfg.Input.CompaniesFile = resolvePath(root, cfg.Input.CompaniesFile)
		cfg.Output.Dir = resolvePath(root, cfg.Output.Dir)
		cfg.Reconcile.WantedFile = resolvePath(root, cfg.Reconcile.WantedFile)
		cfg.Reconcile.UniverseFile = resolvePath(root, cfg.Reconcile.UniverseFile)
		if filepath.Dir(cfg.Reconcile.OutputFile) != "." {
			cfg.Reconcile.OutputFile = resolvePath(root, cfg.Reconcile.OutputFile)
		}
	case !explicit && errors.Is(err, os.ErrNotExist):
		cfg, root = config.Default(), ""
	default:
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	run := uuid.NewString()
	log := logging.New(logging.Config{Format: cfg.Log.Format, Level: cfg.Log.Level}, cmd.ErrOrStderr()).
		With().Str("run", run[:8]).Logger()
	return &project{cfg: cfg, root: root, log: log, run: run}, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// record appends entries to <root>/logs/run-log.csv. Runs without a config
// file are not recorded. Failures are logged, never returned.
func (p *project) record(entries ...runlog.Entry) {
	if p.root == "" {
		return
	}
	for i := range entries {
		entries[i].RunID = p.run
	}
	if err := runlog.Append(p.root, entries); err != nil {
		p.log.Warn().Err(err).Msg("writing run log")
	}
}

// requireDir checks that path names an existing directory.
func requireDir(what, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s is required", config.ErrInvalid, what)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", config.ErrInvalid, what, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s %s is not a directory", config.ErrInvalid, what, path)
	}
	return nil
}

// requireFile checks that path names an existing regular file.
func requireFile(what, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s is required", config.ErrInvalid, what)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", config.ErrInvalid, what, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s %s is a directory", config.ErrInvalid, what, path)
	}
	return nil
}

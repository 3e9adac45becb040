// Package export writes extraction and reconciliation results to disk.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Output formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ReconciledFileName is the file written by the reconcile command.
const ReconciledFileName = "empresas_filtradas.xlsx"

const timestampLayout = "20060102_150405"

// RecordsFileName returns parcelamentos_detalhados_<YYYYMMDD_HHMMSS>.<format>.
func RecordsFileName(ts time.Time, format string) string {
	return fmt.Sprintf("parcelamentos_detalhados_%s.%s", ts.Format(timestampLayout), format)
}

// BackupFileName returns parcelamentos_backup_<YYYYMMDD_HHMMSS>.json.
func BackupFileName(ts time.Time) string {
	return fmt.Sprintf("parcelamentos_backup_%s.json", ts.Format(timestampLayout))
}

// WriteFile writes path through a temporary file in the same directory and
// renames it into place, so readers never see a partial file.
func WriteFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming %s: %w", filepath.Base(path), err)
	}
	return nil
}

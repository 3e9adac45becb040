package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/parcelas/internal/model"
)

// ReconciledColumns is the header of the reconciliation export.
var ReconciledColumns = []string{"Nº", "EMPRESA", "CNPJ"}

const reconciledSheet = "Empresas"

// MarshalReconciled converts an entry to a row in ReconciledColumns order.
func MarshalReconciled(e model.ReconciledEntry) []string {
	return []string{e.Code, e.Name, e.TaxID}
}

// WriteReconciledXLSX writes the reconciled entries as a workbook. Codes and
// tax IDs stay text so leading zeros survive.
func WriteReconciledXLSX(w io.Writer, entries []model.ReconciledEntry) error {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{e.Code, e.Name, e.TaxID})
	}
	return writeSheet(w, reconciledSheet, ReconciledColumns, rows)
}

// WriteReconciledCSV writes the reconciled entries as CSV.
func WriteReconciledCSV(w io.Writer, entries []model.ReconciledEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReconciledColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(MarshalReconciled(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

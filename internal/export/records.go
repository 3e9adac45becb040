package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/parcelas/internal/model"
)

// RecordColumns is the header of the installment-record export.
var RecordColumns = []string{
	"CNPJ", "CNPJ_Numeros", "Nome_Empresa", "Tipo", "Subtipo", "Conta",
	"Modalidade", "Detalhes", "Status", "Valor", "Arquivo",
}

const (
	colTaxID = iota
	colTaxIDDigits
	colCompany
	colType
	colSubtype
	colAccount
	colModality
	colDetails
	colStatus
	colValue
	colFile
	numRecordFields
)

const recordsSheet = "Parcelamentos"

// MarshalRecord converts a record to a row in RecordColumns order.
func MarshalRecord(r model.InstallmentRecord) []string {
	row := make([]string, numRecordFields)
	row[colTaxID] = r.TaxID
	row[colTaxIDDigits] = r.TaxIDDigits
	row[colCompany] = r.CompanyName
	row[colType] = string(r.Type)
	row[colSubtype] = r.Subtype
	row[colAccount] = r.Account
	row[colModality] = r.Modality
	row[colDetails] = r.Details
	row[colStatus] = r.Status
	row[colValue] = r.Value.StringFixed(2)
	row[colFile] = r.File
	return row
}

// WriteRecordsCSV writes a UTF-8 CSV with a byte-order mark so spreadsheet
// programs detect the encoding.
func WriteRecordsCSV(w io.Writer, records []model.InstallmentRecord) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecordsXLSX writes a workbook with one sheet of records. Valor is
// stored as a number.
func WriteRecordsXLSX(w io.Writer, records []model.InstallmentRecord) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		row := make([]any, numRecordFields)
		for i, v := range MarshalRecord(r) {
			row[i] = v
		}
		row[colValue] = r.Value.InexactFloat64()
		rows = append(rows, row)
	}
	return writeSheet(w, recordsSheet, RecordColumns, rows)
}

// WriteRecords dispatches on format (xlsx or csv).
func WriteRecords(w io.Writer, format string, records []model.InstallmentRecord) error {
	switch format {
	case FormatXLSX:
		return WriteRecordsXLSX(w, records)
	case FormatCSV:
		return WriteRecordsCSV(w, records)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

type jsonRecord struct {
	CNPJ        string      `json:"CNPJ"`
	CNPJNumeros string      `json:"CNPJ_Numeros"`
	NomeEmpresa string      `json:"Nome_Empresa"`
	Tipo        string      `json:"Tipo"`
	Subtipo     string      `json:"Subtipo"`
	Conta       string      `json:"Conta"`
	Modalidade  string      `json:"Modalidade"`
	Detalhes    string      `json:"Detalhes"`
	Status      string      `json:"Status"`
	Valor       json.Number `json:"Valor"`
	Arquivo     string      `json:"Arquivo"`
}

// WriteRecordsJSON writes the records as an indented JSON array keyed by the
// export column names.
func WriteRecordsJSON(w io.Writer, records []model.InstallmentRecord) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord{
			CNPJ:        r.TaxID,
			CNPJNumeros: r.TaxIDDigits,
			NomeEmpresa: r.CompanyName,
			Tipo:        string(r.Type),
			Subtipo:     r.Subtype,
			Conta:       r.Account,
			Modalidade:  r.Modality,
			Detalhes:    r.Details,
			Status:      r.Status,
			Valor:       json.Number(r.Value.StringFixed(2)),
			Arquivo:     r.File,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func writeSheet(w io.Writer, name string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &hdr); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cellRef, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

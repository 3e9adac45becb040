// Package roster reads company rosters from spreadsheets and CSV files.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/cleared-dev/parcelas/internal/model"
	"github.com/cleared-dev/parcelas/internal/taxid"
)

// ErrInvalid is returned for a roster file that lacks the required columns.
var ErrInvalid = errors.New("invalid roster")

const (
	colWantedName = 0
	colWantedID   = 1
	wantedCols    = 2

	colUniverseCode = 0
	colUniverseName = 1
	colUniverseID   = 2
	universeCols    = 3

	allowListColumn = "CNPJ"
)

// ReadWanted reads a header-less roster with the company name in column A
// and the tax ID in column B.
func ReadWanted(path string) ([]model.WantedEntry, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if width(rows) < wantedCols {
		return nil, fmt.Errorf("%w: %s needs at least %d columns (name, CNPJ)", ErrInvalid, filepath.Base(path), wantedCols)
	}
	entries := make([]model.WantedEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.WantedEntry{
			Name:  cell(row, colWantedName),
			RawID: cell(row, colWantedID),
		})
	}
	return entries, nil
}

// ReadUniverse reads a header-less roster with the external code in column A,
// the company name in column B and the tax ID in column C.
func ReadUniverse(path string) ([]model.UniverseEntry, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if width(rows) < universeCols {
		return nil, fmt.Errorf("%w: %s needs at least %d columns (code, name, CNPJ)", ErrInvalid, filepath.Base(path), universeCols)
	}
	entries := make([]model.UniverseEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.UniverseEntry{
			Code:  cell(row, colUniverseCode),
			Name:  cell(row, colUniverseName),
			RawID: cell(row, colUniverseID),
		})
	}
	return entries, nil
}

// ReadAllowList reads the CNPJ column of a roster with a header row and
// returns the normalized IDs. It returns nil when the column is missing or
// holds no IDs, meaning no filter should be applied.
func ReadAllowList(path string) ([]string, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	col := -1
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), allowListColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, nil
	}
	var ids []string
	for _, row := range rows[1:] {
		if id := taxid.Normalize(cell(row, col)); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	case ".csv", ".txt":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrInvalid, filepath.Ext(path))
	}
}

// readXLSX returns the rows of the first sheet.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// readCSV accepts UTF-8 (with or without BOM) or Latin-1 input, separated by
// commas or semicolons.
func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffComma(data)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func sniffComma(data []byte) rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func width(rows [][]string) int {
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	return w
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

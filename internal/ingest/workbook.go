package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ReadFile loads a table from disk. Spreadsheet workbooks are read from their
// first sheet; everything else is treated as delimited text.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(path, "")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseCSV(string(data))
}

// ReadWorkbook loads one sheet of an xlsx workbook. An empty sheet name selects the first sheet.
// Cells are read raw, so date cells arrive as serial day numbers.
func ReadWorkbook(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Msg: "Unable to open workbook", Err: err}
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &ParseError{Msg: "Workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("Unable to read sheet %q", sheet), Err: err}
	}

	var records [][]string
	for _, r := range rows {
		blank := true
		rec := make([]string, len(r))
		for i, cell := range r {
			rec[i] = strings.TrimSpace(cell)
			if rec[i] != "" {
				blank = false
			}
		}
		if !blank {
			records = append(records, rec)
		}
	}
	if len(records) < 2 {
		return nil, &ParseError{Msg: "Sheet requires a header row and at least one data row."}
	}

	log.Debug().Str("sheet", sheet).Int("rows", len(records)-1).Msg("Loaded workbook sheet")
	return newTable(records[0], records[1:]), nil
}

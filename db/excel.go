package db

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"school-dashboard-go/forms"
	"school-dashboard-go/models"
)

// ImportRow is one spreadsheet row turned into a draft. Row is 1-based as
// shown in spreadsheet tools.
type ImportRow struct {
	Row   int
	Draft models.Draft
}

// ReadDraftsFromExcel reads the first sheet of an xlsx stream into drafts of
// kind tag. The first row is a header naming each column by field name or
// label ("studentName" or "Student Name"); unknown columns are ignored.
func ReadDraftsFromExcel(file io.Reader, tag models.RecordType) ([]ImportRow, error) {
	fields := forms.FieldsFor(tag, nil, forms.Lookups{})
	if fields == nil {
		return nil, fmt.Errorf("unknown record type %q", tag)
	}

	f, err := excelize.OpenReader(file)
	if err != nil {
		log.Printf("Error opening Excel reader: %v", err)
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		log.Printf("Error getting rows from sheet '%s': %v", sheetName, err)
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, errors.New("excel sheet is empty")
	}

	columns := make([]*forms.Field, len(rows[0]))
	matched := 0
	for i, header := range rows[0] {
		if fld, ok := matchHeader(fields, header); ok {
			columns[i] = &fld
			matched++
		}
	}
	if matched == 0 {
		return nil, fmt.Errorf("header row has no %s columns", tag)
	}

	var out []ImportRow
	for i, row := range rows[1:] {
		if isBlank(row) {
			log.Printf("Skipping blank row %d", i+2)
			continue
		}
		d := models.NewDraft(tag)
		for col, cell := range row {
			if col >= len(columns) || columns[col] == nil {
				continue
			}
			d = columns[col].Apply(d, strings.TrimSpace(cell))
		}
		out = append(out, ImportRow{Row: i + 2, Draft: d})
	}
	return out, nil
}

func matchHeader(fields []forms.Field, header string) (forms.Field, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return forms.Field{}, false
	}
	for _, f := range fields {
		if strings.ToLower(f.Name) == h || strings.ToLower(f.Label) == h {
			return f, true
		}
	}
	return forms.Field{}, false
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteTableToExcel writes header and rows to a single-sheet workbook.
func WriteTableToExcel(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil && len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, n int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", n, err)
	}
	return nil
}

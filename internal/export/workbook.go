package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"partyrecords/internal/ingest"
	"partyrecords/internal/record"
)

const defaultSheet = "Sheet1"

// Workbook writes one sheet per active minigame with a header row of
// "Player" and the map columns. Missing cells stay blank.
func Workbook(results []*ingest.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	written := 0
	for _, r := range results {
		if r == nil || r.Inactive || r.Table == nil {
			continue
		}
		sheet := sheetName(r.Minigame)
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, r, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing sheet %s: %w", sheet, err)
		}
		written++
	}

	if written > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			f.Close()
			return nil, err
		}
		f.SetActiveSheet(0)
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, r *ingest.Result, headerStyle int) error {
	cols := make([]string, 0, len(r.Table.Columns()))
	for _, col := range r.Table.Columns() {
		if r.OmitSum && col == record.SumColumn {
			continue
		}
		cols = append(cols, col)
	}

	header := make([]any, 0, len(cols)+1)
	header = append(header, "Player")
	for _, col := range cols {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, player := range r.Table.Players() {
		row := make([]any, 0, len(cols)+1)
		row = append(row, player)
		for _, col := range cols {
			if v := r.Table.Get(player, col); v.Valid {
				row = append(row, v.V)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// sheetName drops characters Excel rejects and truncates to 31 runes.
func sheetName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, name)
	runes := []rune(clean)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	return string(runes)
}

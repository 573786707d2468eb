package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"vendido/internal/domain"
)

// BuildReservationWorkbook renders reservation rows onto a single-sheet
// XLSX workbook, mirroring the console table columns.
func BuildReservationWorkbook(rows []domain.ReservationRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, h := range tableHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []any{
			row.DateLabel,
			row.Material,
			powerValue(row.PowerW),
			row.Quantity,
			row.Pallets,
			row.Customer,
			priceCell(row),
			transportCell(row),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// SaveReservationXLSX writes the reservation rows as an XLSX file at path.
func SaveReservationXLSX(path string, rows []domain.ReservationRow) error {
	f, err := BuildReservationWorkbook(rows)
	if err != nil {
		return fmt.Errorf("building workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

// powerValue keeps numeric cells numeric; unknown power stays "-".
func powerValue(w float64) any {
	if w <= 0 {
		return "-"
	}
	return int(w)
}

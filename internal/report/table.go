package report

import (
	"fmt"
	"strconv"
	"strings"

	"vendido/internal/domain"
)

// tableHeaders are the reservation table columns, in render order.
var tableHeaders = []string{
	"Fecha reserva", "Material", "Potencia (W)", "Cantidad uds",
	"Nº Pallets", "Cliente", "Precio", "Transporte",
}

// RenderTable renders reservation rows as a fixed-width console table.
func RenderTable(rows []domain.ReservationRow) string {
	if len(rows) == 0 {
		return "No hay líneas que mostrar.\n"
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = rowCells(row)
	}

	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = len([]rune(h))
	}
	for _, row := range cells {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	writeRow(&b, tableHeaders, widths)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(sep, "-+-") + "\n")
	for _, row := range cells {
		writeRow(&b, row, widths)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = cell + strings.Repeat(" ", widths[i]-len([]rune(cell)))
	}
	b.WriteString(strings.Join(padded, " | ") + "\n")
}

func rowCells(row domain.ReservationRow) []string {
	return []string{
		row.DateLabel,
		row.Material,
		powerCell(row.PowerW),
		strconv.Itoa(row.Quantity),
		row.Pallets,
		row.Customer,
		priceCell(row),
		transportCell(row),
	}
}

func powerCell(w float64) string {
	if w <= 0 {
		return "-"
	}
	return strconv.Itoa(int(w))
}

// priceCell renders the unit price tagged with its denomination: four
// decimals for €/W, two for €/ud.
func priceCell(row domain.ReservationRow) string {
	if row.PriceUnit == domain.PriceUnitPerWatt {
		return fmt.Sprintf("%s/W", FormatEUR(row.UnitPrice, 4))
	}
	return fmt.Sprintf("%s/ud", FormatEUR(row.UnitPrice, 2))
}

func transportCell(row domain.ReservationRow) string {
	if !row.HasTransport {
		return "-"
	}
	return FormatEUR(row.Transport, 2)
}

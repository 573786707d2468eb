package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendido/internal/domain"
)

func sampleRows() []domain.ReservationRow {
	return []domain.ReservationRow{
		{
			DateLabel:    "2025-08-20 09:15:00",
			Material:     "AIKO MAH72Mw 605W",
			PowerW:       605,
			Quantity:     72,
			Pallets:      "2",
			Customer:     "Energia Solar SL",
			UnitPrice:    0.1041,
			PriceUnit:    domain.PriceUnitPerWatt,
			Transport:    150,
			HasTransport: true,
		},
		{
			DateLabel: "2025-08-20 09:15:00",
			Material:  "Cable solar 6mm",
			Quantity:  10,
			Pallets:   "-",
			Customer:  "Energia Solar SL",
			UnitPrice: 1.25,
			PriceUnit: domain.PriceUnitPerUnit,
		},
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleRows())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header, separator, two rows")

	assert.Contains(t, lines[0], "Fecha reserva")
	assert.Contains(t, lines[0], "Transporte")
	assert.Contains(t, lines[1], "-+-")
	assert.Contains(t, lines[2], "605")
	assert.Contains(t, lines[2], "0,1041 €/W")
	assert.Contains(t, lines[2], "150,00 €")
	assert.Contains(t, lines[3], "1,25 €/ud")

	// Every line is the same display width.
	width := len([]rune(lines[0]))
	for _, line := range lines[1:] {
		assert.Equal(t, width, len([]rune(line)))
	}
}

func TestRenderTable_UnknownPowerAndTransport(t *testing.T) {
	out := RenderTable(sampleRows())
	rows := strings.Split(out, "\n")
	// Second data row has no power and no transport.
	fields := strings.Split(rows[3], " | ")
	require.Len(t, fields, 8)
	assert.Equal(t, "-", strings.TrimSpace(fields[2]))
	assert.Equal(t, "-", strings.TrimSpace(fields[7]))
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Equal(t, "No hay líneas que mostrar.\n", RenderTable(nil))
}

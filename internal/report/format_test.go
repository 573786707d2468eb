package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		decimals int
		want     string
	}{
		{"simple", 99.9, 2, "99,90 €"},
		{"thousands", 1234.56, 2, "1.234,56 €"},
		{"millions", 1234567.89, 2, "1.234.567,89 €"},
		{"zero", 0, 2, "0,00 €"},
		{"no decimals", 1500, 0, "1.500 €"},
		{"four decimals", 0.1041, 4, "0,1041 €"},
		{"negative", -1234.5, 2, "-1.234,50 €"},
		{"no thousands below 1000", 999.99, 2, "999,99 €"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEUR(tt.v, tt.decimals))
		})
	}
}

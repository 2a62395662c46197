package locale

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapUnitType(t *testing.T) {
	tests := []struct {
		unitType string
		amount   int
		want     string
	}{
		{"Unit", 1, "Unidad"},
		{"Unit", 0, "Unidades"},
		{"Unit", 2, "Unidades"},
		{"Unidad", 5, "Unidades"},
		{"Box", 1, "Caja"},
		{"Cajas", 3, "Cajas"},
		{"Kg", 1, "Kilogramo"},
		{"Gramos", 250, "Gramos"},
		{"Liters", 1, "Litro"},
		{"Piezas", 1, "Pieza"},
		{"Meters", 10, "Metros"},
		{"", 1, "Unidad"},
		{"", 7, "Unidades"},
		{"Docena", 1, "Docena"},
		{"Docena", 4, "Docena"},
		{"unit", 1, "unit"},
		{"BOX", 3, "BOX"},
		{" Kg", 1, " Kg"},
	}

	for _, tt := range tests {
		t.Run(tt.unitType, func(t *testing.T) {
			assert.Equal(t, tt.want, MapUnitType(tt.unitType, tt.amount))
		})
	}
}

func TestFormatCLP(t *testing.T) {
	assert.Equal(t, "$0", FormatCLP(0))
	assert.Equal(t, "$1.234.567", FormatCLP(1234567))
	assert.Equal(t, "-$25.990", FormatCLP(-25990))
}

func TestCollatorSpanishOrder(t *testing.T) {
	names := []string{"oso", "Ñandú", "nube", "árbol", "Banana"}
	collator := NewCollator()

	sort.SliceStable(names, func(i, j int) bool {
		return collator.Compare(names[i], names[j]) < 0
	})

	assert.Equal(t, []string{"árbol", "Banana", "nube", "Ñandú", "oso"}, names)
}

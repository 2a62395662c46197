package catalog

import (
	"testing"

	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func names(products []models.Product) []string {
	result := make([]string, 0, len(products))
	for _, p := range products {
		result = append(result, p.Name)
	}
	return result
}

func prices(products []models.Product) []int {
	result := make([]int, 0, len(products))
	for _, p := range products {
		result = append(result, p.Price)
	}
	return result
}

func TestApplySortModes(t *testing.T) {
	products := []models.Product{
		{Name: "B", Price: 200},
		{Name: "A", Price: 100},
		{Name: "C", Price: 50},
	}

	assert.Equal(t, []string{"A", "B", "C"}, names(Apply(products, DefaultFilterState())))
	assert.Equal(t, []int{200, 100, 50}, prices(Apply(products, FilterState{Sort: SortPriceDesc})))
	assert.Equal(t, []int{50, 100, 200}, prices(Apply(products, FilterState{Sort: SortPriceAsc})))

	assert.Equal(t, []string{"B", "A", "C"}, names(products))
}

func TestApplyAlphabeticalUsesSpanishCollation(t *testing.T) {
	products := []models.Product{
		{Name: "oso"},
		{Name: "Ñandú"},
		{Name: "nube"},
		{Name: "árbol"},
		{Name: ""},
	}

	assert.Equal(t, []string{"", "árbol", "nube", "Ñandú", "oso"}, names(Apply(products, DefaultFilterState())))
}

func TestApplyBarcodeShortCircuits(t *testing.T) {
	products := []models.Product{
		{Name: "Zeta", BarCode: "991234", ProductType: "Bebidas", Price: 1},
		{Name: "xyz item", BarCode: "555", ProductType: "Foo", Price: 2},
		{Name: "Alfa", BarCode: "1234", ProductType: "Alimentos", Price: 3},
	}

	result := Apply(products, FilterState{
		SearchQuery:  "xyz",
		BarcodeQuery: " 123 ",
		Category:     "Foo",
		Sort:         SortPriceDesc,
	})

	assert.Equal(t, []string{"Zeta", "Alfa"}, names(result))
}

func TestApplyBarcodeCaseInsensitive(t *testing.T) {
	products := []models.Product{{Name: "A", BarCode: "ABC-01"}, {Name: "B"}}
	assert.Equal(t, []string{"A"}, names(Apply(products, FilterState{BarcodeQuery: "abc"})))
}

func TestApplySearchAndCategory(t *testing.T) {
	products := []models.Product{
		{Name: "Leche entera", ProductType: "Alimentos"},
		{Name: "Jugo", Description: "sin LECHE", ProductType: "Bebidas"},
		{Name: "Detergente", ProductType: "Articulos de aseo"},
	}

	assert.Equal(t, []string{"Jugo", "Leche entera"}, names(Apply(products, FilterState{SearchQuery: "  leche "})))
	assert.Equal(t, []string{"Jugo"}, names(Apply(products, FilterState{SearchQuery: "leche", Category: "Bebidas"})))
	assert.Equal(t, []string{"Detergente"}, names(Apply(products, FilterState{Category: "Articulos de aseo"})))
	assert.Empty(t, Apply(products, FilterState{Category: "bebidas"}))
}

func TestApplyEmptyInput(t *testing.T) {
	assert.Empty(t, Apply(nil, DefaultFilterState()))
	assert.Empty(t, Apply(nil, FilterState{BarcodeQuery: "1"}))
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortPriceDesc, ParseSortMode("price-desc"))
	assert.Equal(t, SortPriceAsc, ParseSortMode(" PRICE-ASC"))
	assert.Equal(t, SortAlphabetical, ParseSortMode(""))
	assert.Equal(t, SortAlphabetical, ParseSortMode("stock"))
}

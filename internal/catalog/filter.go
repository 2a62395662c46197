// Package catalog deriva la vista filtrada y ordenada del catálogo de productos
// a partir del estado de filtros del usuario.
package catalog

import (
	"sort"
	"strings"

	"github.com/hypernova-labs/cashier-service/internal/locale"
	"github.com/hypernova-labs/cashier-service/internal/models"
)

// SortMode es el criterio de orden de la vista
type SortMode string

const (
	SortAlphabetical SortMode = "alphabetical"
	SortPriceDesc    SortMode = "price-desc"
	SortPriceAsc     SortMode = "price-asc"
)

// ParseSortMode interpreta value; cualquier valor desconocido es alfabético
func ParseSortMode(value string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(value))) {
	case SortPriceDesc:
		return SortPriceDesc
	case SortPriceAsc:
		return SortPriceAsc
	default:
		return SortAlphabetical
	}
}

// FilterState es el estado de filtros confirmado
type FilterState struct {
	SearchQuery  string   `json:"searchQuery"`
	BarcodeQuery string   `json:"barcodeQuery"`
	Category     string   `json:"category"`
	Sort         SortMode `json:"sortBy"`
}

// DefaultFilterState retorna el estado inicial: sin filtros, orden alfabético
func DefaultFilterState() FilterState {
	return FilterState{Sort: SortAlphabetical}
}

var collator = locale.NewCollator()

// Apply retorna una nueva lista con los productos que cumplen state.
// Un código de barras no vacío tiene prioridad y omite los demás filtros y el orden.
func Apply(products []models.Product, state FilterState) []models.Product {
	if barcode := strings.ToLower(strings.TrimSpace(state.BarcodeQuery)); barcode != "" {
		result := make([]models.Product, 0)
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.BarCode), barcode) {
				result = append(result, p)
			}
		}
		return result
	}

	search := strings.ToLower(strings.TrimSpace(state.SearchQuery))
	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if state.Category != "" && p.ProductType != state.Category {
			continue
		}
		result = append(result, p)
	}

	switch state.Sort {
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return collator.Compare(result[i].Name, result[j].Name) < 0
		})
	}

	return result
}

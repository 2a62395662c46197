package models

import (
	"time"

	"github.com/google/uuid"
)

// Valores por defecto de un producto nuevo
const (
	DefaultProductType = "Alimentos"
	DefaultUnitType    = "Unidad"
)

// Product representa un producto del catálogo del punto de venta
type Product struct {
	ID             uuid.UUID `json:"id"`
	CreationDate   time.Time `json:"creationDate"`
	LastUpdateDate time.Time `json:"lastUpdateDate"`
	BarCode        string    `json:"barCode"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          int       `json:"price"`
	Stock          int       `json:"stock"`
	ProductType    string    `json:"productType"`
	UnitType       string    `json:"unitType"`
	IsActive       bool      `json:"isActive"`
}

// ProductRequest representa el body para crear/actualizar un producto.
// El ID nunca se toma del body.
type ProductRequest struct {
	BarCode     string `json:"barCode"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	ProductType string `json:"productType"`
	UnitType    string `json:"unitType"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// ToProduct convierte el request en un producto aplicando los valores por defecto
func (r *ProductRequest) ToProduct() *Product {
	product := &Product{
		BarCode:     r.BarCode,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		ProductType: r.ProductType,
		UnitType:    r.UnitType,
		IsActive:    true,
	}
	if r.IsActive != nil {
		product.IsActive = *r.IsActive
	}
	if product.ProductType == "" {
		product.ProductType = DefaultProductType
	}
	if product.UnitType == "" {
		product.UnitType = DefaultUnitType
	}
	return product
}

// ProductResponse representa la respuesta a una mutación de producto
type ProductResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

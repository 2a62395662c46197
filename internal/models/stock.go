package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StockOperation es el modo de ajuste de stock
type StockOperation string

const (
	// StockOperationReplace reemplaza el stock por la cantidad indicada
	StockOperationReplace StockOperation = "update"
	// StockOperationAdd suma la cantidad indicada al stock actual
	StockOperationAdd StockOperation = "add"
)

// ParseStockOperation interpreta el modo recibido del cliente. "replace" se
// acepta como alias de "update".
func ParseStockOperation(value string) (StockOperation, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "update", "replace":
		return StockOperationReplace, true
	case "add":
		return StockOperationAdd, true
	default:
		return "", false
	}
}

// StockUpdateRequest representa el body de PUT /products/{id}/stock.
// Acepta la forma legacy {newStock} o {operationType, quantity}; cualquier
// total calculado por el cliente se ignora.
type StockUpdateRequest struct {
	NewStock      *int   `json:"newStock,omitempty"`
	OperationType string `json:"operationType,omitempty"`
	Quantity      *int   `json:"quantity,omitempty"`
	NewTotal      *int   `json:"newTotal,omitempty"`
}

// StockAdjustment es el resultado de un ajuste de stock aplicado
type StockAdjustment struct {
	ProductID     uuid.UUID      `json:"productId"`
	ProductName   string         `json:"productName"`
	UnitType      string         `json:"unitType"`
	Operation     StockOperation `json:"operationType"`
	Quantity      int            `json:"quantity"`
	PreviousStock int            `json:"previousStock"`
	NewStock      int            `json:"newStock"`
	LowStock      bool           `json:"lowStock"`
	AdjustedAt    time.Time      `json:"adjustedAt"`
}

// StockResponse representa la respuesta del ajuste de stock
type StockResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	PreviousStock int    `json:"previousStock"`
	NewStock      int    `json:"newStock"`
}

// StockMovement registra cada ajuste de stock aplicado a un producto
type StockMovement struct {
	ID            uuid.UUID      `json:"id"`
	ProductID     uuid.UUID      `json:"productId"`
	Operation     StockOperation `json:"operationType"`
	Quantity      int            `json:"quantity"`
	PreviousStock int            `json:"previousStock"`
	NewStock      int            `json:"newStock"`
	CreatedAt     time.Time      `json:"createdAt"`
}

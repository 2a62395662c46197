// Package stockform contiene el estado derivado del formulario de ajuste de stock.
package stockform

import (
	"sync"

	"github.com/google/uuid"
	"github.com/hypernova-labs/cashier-service/internal/locale"
	"github.com/hypernova-labs/cashier-service/internal/models"
)

// Submission es lo que el formulario emite al confirmar un ajuste
type Submission struct {
	ProductID     uuid.UUID             `json:"productId"`
	OperationType models.StockOperation `json:"operationType"`
	Quantity      int                   `json:"quantity"`
	NewTotal      int                   `json:"newTotal"`
}

// Request retorna el body de PUT /products/{id}/stock. El total se omite:
// el servidor lo recalcula.
func (s Submission) Request() models.StockUpdateRequest {
	quantity := s.Quantity
	return models.StockUpdateRequest{
		OperationType: string(s.OperationType),
		Quantity:      &quantity,
	}
}

// Form mantiene producto, operación y cantidad del ajuste en curso
type Form struct {
	mu        sync.Mutex
	product   *models.Product
	operation models.StockOperation
	quantity  int
}

// New crea un formulario para product (puede ser nil) en modo reemplazo
func New(product *models.Product) *Form {
	return &Form{product: product, operation: models.StockOperationReplace}
}

// SetProduct cambia el producto seleccionado
func (f *Form) SetProduct(product *models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.product = product
}

// SetOperation cambia el modo; un valor desconocido se ignora
func (f *Form) SetOperation(op models.StockOperation) {
	parsed, ok := models.ParseStockOperation(string(op))
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.operation = parsed
}

// Operation retorna el modo actual
func (f *Form) Operation() models.StockOperation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.operation
}

// SetQuantity guarda la cantidad; los negativos se guardan como 0
func (f *Form) SetQuantity(quantity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantity = max(0, quantity)
}

// Quantity retorna la cantidad actual
func (f *Form) Quantity() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quantity
}

// NewTotal retorna el stock resultante del ajuste
func (f *Form) NewTotal() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newTotal()
}

func (f *Form) newTotal() int {
	return NewTotal(f.product, f.operation, f.quantity)
}

// NewTotal calcula el stock resultante. Es 0 si product es nil o quantity <= 0.
func NewTotal(product *models.Product, op models.StockOperation, quantity int) int {
	if product == nil || quantity <= 0 {
		return 0
	}
	if op == models.StockOperationAdd {
		return product.Stock + quantity
	}
	return quantity
}

// IsValid indica si el ajuste puede enviarse
func (f *Form) IsValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isValid()
}

func (f *Form) isValid() bool {
	return f.product != nil && f.quantity > 0
}

// Submit emite el ajuste si es válido y reinicia la cantidad; la operación se
// conserva para el siguiente ajuste. Retorna false si no emitió nada.
func (f *Form) Submit(emit func(Submission)) bool {
	f.mu.Lock()
	if !f.isValid() {
		f.mu.Unlock()
		return false
	}
	submission := Submission{
		ProductID:     f.product.ID,
		OperationType: f.operation,
		Quantity:      f.quantity,
		NewTotal:      f.newTotal(),
	}
	f.quantity = 0
	f.mu.Unlock()

	if emit != nil {
		emit(submission)
	}
	return true
}

// Reset vuelve a modo reemplazo con cantidad 0
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.operation = models.StockOperationReplace
	f.quantity = 0
}

// UnitLabel retorna la unidad del producto según su stock actual
func (f *Form) UnitLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.product == nil {
		return ""
	}
	return locale.MapUnitType(f.product.UnitType, f.product.Stock)
}

// NewTotalUnitLabel retorna la unidad del producto según el total resultante
func (f *Form) NewTotalUnitLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.product == nil {
		return ""
	}
	return locale.MapUnitType(f.product.UnitType, f.newTotal())
}

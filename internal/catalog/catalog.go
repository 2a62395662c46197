package catalog

import (
	"sync"

	"github.com/hypernova-labs/cashier-service/internal/models"
)

// LoadTicket identifica una carga del catálogo
type LoadTicket uint64

// Catalog guarda el conjunto completo de productos cargado desde la API.
// Una carga solo se aplica si es más reciente que la última aplicada.
type Catalog struct {
	mu       sync.RWMutex
	products []models.Product
	issued   uint64
	applied  uint64
}

// NewCatalog crea un catálogo vacío
func NewCatalog() *Catalog {
	return &Catalog{}
}

// BeginLoad registra el inicio de una carga y retorna su ticket
func (c *Catalog) BeginLoad() LoadTicket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return LoadTicket(c.issued)
}

// CompleteLoad aplica products si ticket es más reciente que la carga vigente.
// Retorna false si la respuesta quedó obsoleta.
func (c *Catalog) CompleteLoad(ticket LoadTicket, products []models.Product) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if uint64(ticket) <= c.applied || uint64(ticket) > c.issued {
		return false
	}
	c.applied = uint64(ticket)
	c.products = append([]models.Product(nil), products...)
	return true
}

// Products retorna una copia del conjunto vigente
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Product(nil), c.products...)
}

// View aplica state al conjunto vigente
func (c *Catalog) View(state FilterState) []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Apply(c.products, state)
}

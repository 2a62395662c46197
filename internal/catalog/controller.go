package catalog

import (
	"strings"
	"sync"
	"time"
)

// FilterMode es el modo del controlador de filtros
type FilterMode string

const (
	// ModeNormal aplica búsqueda, categoría y orden
	ModeNormal FilterMode = "normal"
	// ModeBarcodeLocked solo filtra por código de barras; los demás filtros
	// quedan en sus valores por defecto hasta que se confirme un código vacío.
	ModeBarcodeLocked FilterMode = "barcode-locked"
)

// Controller mantiene el estado de filtros a partir de la entrada del usuario.
// La búsqueda y el código de barras se confirman con debounce independiente.
type Controller struct {
	mu       sync.Mutex
	state    FilterState
	mode     FilterMode
	search   *Debouncer
	barcode  *Debouncer
	onChange func(FilterState)
}

// NewController crea un controlador; onChange recibe cada estado confirmado
func NewController(delay time.Duration, onChange func(FilterState)) *Controller {
	return &Controller{
		state:    DefaultFilterState(),
		mode:     ModeNormal,
		search:   NewDebouncer(delay),
		barcode:  NewDebouncer(delay),
		onChange: onChange,
	}
}

// State retorna el estado confirmado
func (c *Controller) State() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mode retorna el modo actual
func (c *Controller) Mode() FilterMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SearchInput registra texto de búsqueda; se confirma después del debounce
func (c *Controller) SearchInput(text string) {
	c.search.Trigger(func() { c.CommitSearch(text) })
}

// BarcodeInput registra el código de barras; se confirma después del debounce
func (c *Controller) BarcodeInput(text string) {
	c.barcode.Trigger(func() { c.CommitBarcode(text) })
}

// CommitSearch confirma el texto de búsqueda. Se ignora en modo barcode-locked.
func (c *Controller) CommitSearch(text string) {
	c.update(func(s *FilterState) bool {
		if c.mode == ModeBarcodeLocked {
			return false
		}
		s.SearchQuery = text
		return true
	})
}

// CommitBarcode confirma el código de barras. Un código no vacío entra en
// modo barcode-locked y restablece búsqueda, orden y categoría; solo un
// código vacío vuelve a modo normal.
func (c *Controller) CommitBarcode(text string) {
	c.update(func(s *FilterState) bool {
		if strings.TrimSpace(text) == "" {
			c.mode = ModeNormal
			s.BarcodeQuery = ""
			return true
		}
		c.mode = ModeBarcodeLocked
		*s = DefaultFilterState()
		s.BarcodeQuery = text
		return true
	})
	if c.Mode() == ModeBarcodeLocked {
		c.search.Stop()
	}
}

// SetCategory cambia la categoría. Se ignora en modo barcode-locked.
func (c *Controller) SetCategory(category string) {
	c.update(func(s *FilterState) bool {
		if c.mode == ModeBarcodeLocked {
			return false
		}
		s.Category = category
		return true
	})
}

// SetSort cambia el orden. Se ignora en modo barcode-locked.
func (c *Controller) SetSort(mode SortMode) {
	c.update(func(s *FilterState) bool {
		if c.mode == ModeBarcodeLocked {
			return false
		}
		s.Sort = mode
		return true
	})
}

// Flush confirma de inmediato la entrada pendiente
func (c *Controller) Flush() {
	c.barcode.Flush()
	c.search.Flush()
}

// Reset descarta la entrada pendiente y vuelve al estado inicial
func (c *Controller) Reset() {
	c.search.Stop()
	c.barcode.Stop()
	c.update(func(s *FilterState) bool {
		c.mode = ModeNormal
		*s = DefaultFilterState()
		return true
	})
}

// Close descarta la entrada pendiente sin confirmarla
func (c *Controller) Close() {
	c.search.Stop()
	c.barcode.Stop()
}

func (c *Controller) update(fn func(s *FilterState) bool) {
	c.mu.Lock()
	changed := fn(&c.state)
	state := c.state
	c.mu.Unlock()

	if changed && c.onChange != nil {
		c.onChange(state)
	}
}

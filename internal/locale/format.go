package locale

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Chile es la configuración regional del punto de venta
var Chile = language.MustParse("es-CL")

var printer = message.NewPrinter(Chile)

// FormatNumber formatea n con separadores de miles de es-CL
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatCLP formatea un monto en pesos chilenos, sin decimales
func FormatCLP(amount int) string {
	if amount < 0 {
		return "-$" + FormatNumber(-amount)
	}
	return "$" + FormatNumber(amount)
}

// Collator compara nombres según el orden alfabético español.
// Es seguro para uso concurrente.
type Collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// NewCollator crea un comparador para language.Spanish
func NewCollator() *Collator {
	return &Collator{c: collate.New(language.Spanish)}
}

// Compare retorna -1, 0 o 1 según el orden de a y b
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

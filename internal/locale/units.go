package locale

// UnitLabel es la forma singular y plural de una unidad en español
type UnitLabel struct {
	Singular string
	Plural   string
}

var defaultUnit = UnitLabel{Singular: "Unidad", Plural: "Unidades"}

// unitLabels acepta la clave en inglés y las formas en español. La búsqueda
// distingue mayúsculas.
var unitLabels = map[string]UnitLabel{
	"Unit":       defaultUnit,
	"Unidad":     defaultUnit,
	"Unidades":   defaultUnit,
	"Box":        {Singular: "Caja", Plural: "Cajas"},
	"Caja":       {Singular: "Caja", Plural: "Cajas"},
	"Cajas":      {Singular: "Caja", Plural: "Cajas"},
	"Grams":      {Singular: "Gramo", Plural: "Gramos"},
	"Gramo":      {Singular: "Gramo", Plural: "Gramos"},
	"Gramos":     {Singular: "Gramo", Plural: "Gramos"},
	"Kg":         {Singular: "Kilogramo", Plural: "Kilogramos"},
	"Kilogramo":  {Singular: "Kilogramo", Plural: "Kilogramos"},
	"Kilogramos": {Singular: "Kilogramo", Plural: "Kilogramos"},
	"Liters":     {Singular: "Litro", Plural: "Litros"},
	"Litro":      {Singular: "Litro", Plural: "Litros"},
	"Litros":     {Singular: "Litro", Plural: "Litros"},
	"Pieces":     {Singular: "Pieza", Plural: "Piezas"},
	"Pieza":      {Singular: "Pieza", Plural: "Piezas"},
	"Piezas":     {Singular: "Pieza", Plural: "Piezas"},
	"Meters":     {Singular: "Metro", Plural: "Metros"},
	"Metro":      {Singular: "Metro", Plural: "Metros"},
	"Metros":     {Singular: "Metro", Plural: "Metros"},
}

// SpanishUnitTypes lista las unidades ofrecidas al usuario
var SpanishUnitTypes = []string{"Unidades", "Cajas", "Gramos", "Kilogramos", "Litros", "Piezas", "Metros"}

// LookupUnit retorna las etiquetas de unitType. Un tipo vacío usa Unidad.
func LookupUnit(unitType string) (UnitLabel, bool) {
	if unitType == "" {
		return defaultUnit, true
	}
	label, ok := unitLabels[unitType]
	return label, ok
}

// MapUnitType retorna la etiqueta de unitType para amount: singular si amount
// es 1 y plural en otro caso. Un tipo desconocido se retorna sin cambios.
func MapUnitType(unitType string, amount int) string {
	label, ok := LookupUnit(unitType)
	if !ok {
		return unitType
	}
	if amount == 1 {
		return label.Singular
	}
	return label.Plural
}

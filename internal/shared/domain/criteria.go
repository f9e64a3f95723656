package domain

import (
	"regexp"
	"strings"
)

// ---------------- Operadores ----------------

type Operator string

const (
	OpEq                 Operator = "="
	OpNotEq              Operator = "<>"
	OpGt                 Operator = ">"
	OpGte                Operator = ">="
	OpLt                 Operator = "<"
	OpLte                Operator = "<="
	OpStartsWith         Operator = "startswith"
	OpEndsWith           Operator = "endswith"
	OpContains           Operator = "contains"
	OpIsNull             Operator = "isnull"
	OpIsNotNull          Operator = "isnotnull"
	OpIn                 Operator = "in"
	OpBetween            Operator = "between"
	OpNotStartsWith      Operator = "notstartswith"
	OpContainsOrContains Operator = "containsorcontains"
)

// OperatorClass agrupa operadores que comparten sintaxis y regla de escape.
type OperatorClass int

const (
	ClassComparison OperatorClass = iota
	ClassPattern
	ClassNullCheck
	ClassList
	ClassRange
	ClassMultiFieldPattern
)

// catalog es el conjunto cerrado de operadores soportados.
var catalog = map[Operator]OperatorClass{
	OpEq:                 ClassComparison,
	OpNotEq:              ClassComparison,
	OpGt:                 ClassComparison,
	OpGte:                ClassComparison,
	OpLt:                 ClassComparison,
	OpLte:                ClassComparison,
	OpStartsWith:         ClassPattern,
	OpEndsWith:           ClassPattern,
	OpContains:           ClassPattern,
	OpNotStartsWith:      ClassPattern,
	OpIsNull:             ClassNullCheck,
	OpIsNotNull:          ClassNullCheck,
	OpIn:                 ClassList,
	OpBetween:            ClassRange,
	OpContainsOrContains: ClassMultiFieldPattern,
}

// Operators devuelve el catálogo en un orden estable (útil para documentación y errores).
func Operators() []Operator {
	return []Operator{
		OpEq, OpNotEq, OpGt, OpGte, OpLt, OpLte,
		OpStartsWith, OpEndsWith, OpContains, OpIsNull, OpIsNotNull,
		OpIn, OpBetween, OpNotStartsWith, OpContainsOrContains,
	}
}

// ParseOperator normaliza a minúsculas y comprueba que el operador exista.
func ParseOperator(s string) (Operator, bool) {
	op := Operator(strings.ToLower(strings.TrimSpace(s)))
	_, ok := catalog[op]
	return op, ok
}

// Class devuelve la clase del operador; sólo tiene sentido para operadores del catálogo.
func (o Operator) Class() OperatorClass {
	return catalog[o]
}

// RequiresValue indica si el operador necesita un valor no nulo.
func (o Operator) RequiresValue() bool {
	return o.Class() != ClassNullCheck
}

// RequiresText indica si el operador sólo acepta valores de texto.
func (o Operator) RequiresText() bool {
	switch o.Class() {
	case ClassPattern, ClassList, ClassRange, ClassMultiFieldPattern:
		return true
	}
	return false
}

// IsPattern indica si el operador se traduce a LIKE y necesita el perfil de escape estricto.
func (o Operator) IsPattern() bool {
	c := o.Class()
	return c == ClassPattern || c == ClassMultiFieldPattern
}

// ---------------- Criterion ----------------

var subFieldSeparator = regexp.MustCompile(`\s*\|\s*|(?i:\s+or\s+)`)

// SearchCriterion describe un predicado de filtrado: campo lógico, operador y valor.
type SearchCriterion struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    Value  `json:"value"`
}

// Op devuelve el operador normalizado y si pertenece al catálogo.
func (c SearchCriterion) Op() (Operator, bool) {
	return ParseOperator(c.Operator)
}

// SubFields separa el campo de un criterio containsorcontains en sus sub-campos.
// Se aceptan "|" y " or " como separadores; los elementos vacíos se descartan.
func (c SearchCriterion) SubFields() []string {
	parts := subFieldSeparator.Split(c.Field, -1)
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

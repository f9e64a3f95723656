package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Field asocia un nombre lógico (expuesto al cliente) con su expresión SQL de confianza.
type Field struct {
	Name string
	Expr string
}

// Intent es una forma de consulta predefinida: un nombre y los campos de salida que selecciona.
type Intent struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// FieldRegistry es la lista blanca de una entidad. Se construye una vez al arrancar y no se
// modifica después, por lo que se puede compartir entre goroutines sin sincronización.
type FieldRegistry struct {
	entity    string
	idField   string
	output    []Field
	criterion []Field
	intents   []Intent

	outputIdx    map[string]int
	criterionIdx map[string]int
	intentIdx    map[string]int
	orderExprs   []string
}

var aliasSuffix = regexp.MustCompile(`(?i)\s+as\s+([A-Za-z_][A-Za-z0-9_]*)\s*$`)

// NewFieldRegistry valida y congela la configuración de búsqueda de una entidad.
// Los nombres se comparan sin distinguir mayúsculas; el orden de output define el del SELECT.
func NewFieldRegistry(entity, idField string, output, criterion []Field, intents ...Intent) (*FieldRegistry, error) {
	if strings.TrimSpace(idField) == "" {
		return nil, errors.New("registry: id field expression is required")
	}

	r := &FieldRegistry{
		entity:       entity,
		idField:      idField,
		output:       append([]Field(nil), output...),
		criterion:    append([]Field(nil), criterion...),
		outputIdx:    make(map[string]int, len(output)),
		criterionIdx: make(map[string]int, len(criterion)),
		intentIdx:    make(map[string]int, len(intents)),
	}

	if err := index(r.output, r.outputIdx, "output"); err != nil {
		return nil, err
	}
	if err := index(r.criterion, r.criterionIdx, "criterion"); err != nil {
		return nil, err
	}

	for _, f := range r.output {
		// Las expresiones con alias se ordenan por el alias.
		if m := aliasSuffix.FindStringSubmatch(f.Expr); m != nil {
			r.orderExprs = append(r.orderExprs, m[1])
		} else {
			r.orderExprs = append(r.orderExprs, f.Expr)
		}
	}

	for _, in := range intents {
		key := strings.ToLower(strings.TrimSpace(in.Name))
		if key == "" {
			return nil, errors.New("registry: intent name is required")
		}
		if _, dup := r.intentIdx[key]; dup {
			return nil, fmt.Errorf("registry: duplicate intent '%s'", in.Name)
		}
		for _, f := range in.Fields {
			if _, ok := r.outputIdx[strings.ToLower(f)]; !ok {
				return nil, fmt.Errorf("registry: intent '%s' references unknown output field '%s'", in.Name, f)
			}
		}
		r.intentIdx[key] = len(r.intents)
		r.intents = append(r.intents, Intent{Name: in.Name, Fields: append([]string(nil), in.Fields...)})
	}

	return r, nil
}

// MustFieldRegistry es como NewFieldRegistry pero entra en pánico ante una configuración inválida.
// Pensado para variables de paquete.
func MustFieldRegistry(entity, idField string, output, criterion []Field, intents ...Intent) *FieldRegistry {
	r, err := NewFieldRegistry(entity, idField, output, criterion, intents...)
	if err != nil {
		panic(err)
	}
	return r
}

func index(fields []Field, idx map[string]int, kind string) error {
	for i, f := range fields {
		key := strings.ToLower(strings.TrimSpace(f.Name))
		if key == "" || strings.TrimSpace(f.Expr) == "" {
			return fmt.Errorf("registry: %s field #%d needs a name and an expression", kind, i)
		}
		if key == AllFields {
			return fmt.Errorf("registry: '%s' is reserved and cannot be a %s field", AllFields, kind)
		}
		if _, dup := idx[key]; dup {
			return fmt.Errorf("registry: duplicate %s field '%s'", kind, f.Name)
		}
		idx[key] = i
	}
	return nil
}

func (r *FieldRegistry) Entity() string { return r.entity }

// IDField devuelve la expresión de identidad, que siempre se selecciona.
func (r *FieldRegistry) IDField() string { return r.idField }

// OutputFields devuelve una copia de los campos de salida en el orden del registro.
func (r *FieldRegistry) OutputFields() []Field {
	return append([]Field(nil), r.output...)
}

// CriterionFields devuelve una copia de los campos filtrables.
func (r *FieldRegistry) CriterionFields() []Field {
	return append([]Field(nil), r.criterion...)
}

func (r *FieldRegistry) OutputExpr(name string) (string, bool) {
	i, ok := r.outputIdx[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return r.output[i].Expr, true
}

func (r *FieldRegistry) CriterionExpr(name string) (string, bool) {
	i, ok := r.criterionIdx[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return r.criterion[i].Expr, true
}

// OrderExpr devuelve la expresión con la que se ordena un campo de salida
// (el alias si la expresión lo declara).
func (r *FieldRegistry) OrderExpr(name string) (string, bool) {
	i, ok := r.outputIdx[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return r.orderExprs[i], true
}

func (r *FieldRegistry) Intent(name string) (Intent, bool) {
	i, ok := r.intentIdx[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Intent{}, false
	}
	return r.intents[i], true
}

// Intents devuelve los intents permitidos en orden de registro.
func (r *FieldRegistry) Intents() []Intent {
	out := make([]Intent, len(r.intents))
	for i, in := range r.intents {
		out[i] = Intent{Name: in.Name, Fields: append([]string(nil), in.Fields...)}
	}
	return out
}

package domain

import "strings"

// AllFields es el centinela que selecciona todos los campos de salida registrados.
const AllFields = "*"

const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// SearchRequest describe una consulta filtrada, ordenada y paginada sobre una entidad.
// Page y PageSize son ambos cero (sin paginación) o ambos positivos; la página empieza en 1.
type SearchRequest struct {
	Intent    string              `json:"intent,omitempty"`
	Fields    []string            `json:"fields,omitempty"`
	Criterion []SearchCriterion   `json:"criterion,omitempty"`
	Sort      []SortSpecification `json:"sort,omitempty"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"pageSize"`
}

// SortSpecification indica campo de salida y dirección (ASC/DESC, sin distinguir mayúsculas).
type SortSpecification struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// Direction devuelve la dirección normalizada en minúsculas y si es válida.
func (s SortSpecification) Direction() (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s.Order)) {
	case OrderAsc:
		return "asc", true
	case OrderDesc:
		return "desc", true
	}
	return "", false
}

// SelectsAll indica si se pidió el centinela "*".
func (r SearchRequest) SelectsAll() bool {
	for _, f := range r.Fields {
		if f == AllFields {
			return true
		}
	}
	return false
}

// Paginated indica si la petición lleva paginación.
func (r SearchRequest) Paginated() bool {
	return r.Page != 0 || r.PageSize != 0
}

// Offset devuelve el número de filas a saltar (las páginas empiezan en 1).
func (r SearchRequest) Offset() int {
	if r.Page <= 0 {
		return 0
	}
	return (r.Page - 1) * r.PageSize
}

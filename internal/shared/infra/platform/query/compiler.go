package query

import (
	"fmt"
	"strings"

	sharedDomain "github.com/davicafu/hexasearch/internal/shared/domain"
)

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// ---------- SELECT ----------

// SelectClause construye la lista de columnas. El campo identidad va siempre primero y una
// sola vez; el resto sigue el orden de declaración del registro, no el de la petición.
// Si no hay campos explícitos se usan los del intent.
func SelectClause(req sharedDomain.SearchRequest, reg *sharedDomain.FieldRegistry) string {
	requested := req.Fields
	if len(requested) == 0 && req.Intent != "" {
		if in, ok := reg.Intent(req.Intent); ok {
			requested = in.Fields
		}
	}

	all := false
	wanted := make(map[string]bool, len(requested))
	for _, f := range requested {
		if f == sharedDomain.AllFields {
			all = true
			continue
		}
		wanted[strings.ToLower(f)] = true
	}

	columns := []string{reg.IDField()}
	for _, f := range reg.OutputFields() {
		if strings.EqualFold(f.Expr, reg.IDField()) {
			continue
		}
		if all || wanted[strings.ToLower(f.Name)] {
			columns = append(columns, f.Expr)
		}
	}
	return "SELECT " + strings.Join(columns, ", ")
}

// ---------- WHERE ----------

// WhereClause une los predicados de la petición con AND. Devuelve "" si no hay criterios.
func WhereClause(req sharedDomain.SearchRequest, reg *sharedDomain.FieldRegistry) (string, error) {
	return whereClause(req.Criterion, reg, "", MySQL)
}

// whereClause antepone un filtro base de confianza (p.ej. borrado lógico) a los criterios.
func whereClause(criteria []sharedDomain.SearchCriterion, reg *sharedDomain.FieldRegistry, baseFilter string, d Dialect) (string, error) {
	var b strings.Builder
	isFirst := true
	appendPredicate := func(p string) {
		if isFirst {
			b.WriteString("WHERE ")
			isFirst = false
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(p)
	}

	if baseFilter = strings.TrimSpace(baseFilter); baseFilter != "" {
		appendPredicate("(" + baseFilter + ")")
	}
	for i, c := range criteria {
		p, err := predicate(i, c, reg, d)
		if err != nil {
			return "", err
		}
		appendPredicate(p)
	}
	return b.String(), nil
}

// Predicate traduce un criterio a SQL con literales de MySQL. Los literales del cliente pasan
// siempre por Escape; las expresiones de columna salen del registro.
func Predicate(i int, c sharedDomain.SearchCriterion, reg *sharedDomain.FieldRegistry) (string, error) {
	return predicate(i, c, reg, MySQL)
}

func predicate(i int, c sharedDomain.SearchCriterion, reg *sharedDomain.FieldRegistry, d Dialect) (string, error) {
	op, ok := c.Op()
	if !ok {
		return "", sharedDomain.NewValidationError(sharedDomain.ErrInvalidOperator, c.Field,
			"criterion #%d: '%s' is not a supported operator", i, c.Operator)
	}

	if op == sharedDomain.OpContainsOrContains {
		return multiFieldPredicate(i, c, reg, d)
	}

	expr, ok := reg.CriterionExpr(c.Field)
	if !ok {
		return "", sharedDomain.NewValidationError(sharedDomain.ErrInvalidCriterionField, c.Field,
			"criterion #%d: '%s' is not a supported criterion field", i, c.Field)
	}

	switch op {
	case sharedDomain.OpIsNull:
		return expr + " IS NULL", nil
	case sharedDomain.OpIsNotNull:
		return expr + " IS NOT NULL", nil
	}

	if c.Value.IsNull() {
		return "", sharedDomain.NewValidationError(sharedDomain.ErrMissingCriterionValue, c.Field,
			"criterion #%d: a non-null value is expected for '%s'", i, op)
	}
	if err := sharedDomain.CheckValue(op, c.Value); err != nil {
		return "", malformed(i, c, op, err)
	}

	switch op {
	case sharedDomain.OpStartsWith:
		return likePredicate(d, expr, "LIKE", c.Value, "", "%"), nil
	case sharedDomain.OpNotStartsWith:
		return likePredicate(d, expr, "NOT LIKE", c.Value, "", "%"), nil
	case sharedDomain.OpEndsWith:
		return likePredicate(d, expr, "LIKE", c.Value, "%", ""), nil
	case sharedDomain.OpContains:
		return likePredicate(d, expr, "LIKE", c.Value, "%", "%"), nil
	case sharedDomain.OpIn:
		items, err := c.Value.ListItems()
		if err != nil {
			return "", malformed(i, c, op, err)
		}
		quoted := make([]string, len(items))
		for j, it := range items {
			quoted[j] = d.Quote(it)
		}
		return fmt.Sprintf("%s IN (%s)", expr, strings.Join(quoted, ", ")), nil
	case sharedDomain.OpBetween:
		from, to, err := c.Value.RangeBounds()
		if err != nil {
			return "", malformed(i, c, op, err)
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", expr, d.Quote(from), d.Quote(to)), nil
	}

	return fmt.Sprintf("%s %s %s", expr, op, literal(c.Value, d)), nil
}

// multiFieldPredicate: (a LIKE '%v%' OR b LIKE '%v%'), siempre entre paréntesis.
func multiFieldPredicate(i int, c sharedDomain.SearchCriterion, reg *sharedDomain.FieldRegistry, d Dialect) (string, error) {
	op := sharedDomain.OpContainsOrContains
	subFields := c.SubFields()
	if len(subFields) == 0 {
		return "", sharedDomain.NewValidationError(sharedDomain.ErrMalformedCriterionValue, c.Field,
			"criterion #%d: '%s' needs at least one field", i, op)
	}
	if c.Value.IsNull() {
		return "", sharedDomain.NewValidationError(sharedDomain.ErrMissingCriterionValue, c.Field,
			"criterion #%d: a non-null value is expected for '%s'", i, op)
	}
	if err := sharedDomain.CheckValue(op, c.Value); err != nil {
		return "", malformed(i, c, op, err)
	}

	parts := make([]string, 0, len(subFields))
	for _, sf := range subFields {
		expr, ok := reg.CriterionExpr(sf)
		if !ok {
			return "", sharedDomain.NewValidationError(sharedDomain.ErrInvalidCriterionField, sf,
				"criterion #%d: '%s' is not a supported criterion field", i, sf)
		}
		parts = append(parts, likePredicate(d, expr, "LIKE", c.Value, "%", "%"))
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func likePredicate(d Dialect, expr, keyword string, v sharedDomain.Value, prefix, suffix string) string {
	text, _ := v.Text()
	return d.Like(expr, keyword, text, prefix, suffix)
}

// literal renderiza el valor de una comparación: los números van tal cual, texto y fechas
// entre comillas.
func literal(v sharedDomain.Value, d Dialect) string {
	switch v.Kind() {
	case sharedDomain.KindNumber:
		n, _ := v.Number()
		return n.String()
	case sharedDomain.KindDate:
		return d.Quote(v.String())
	default:
		text, _ := v.Text()
		return d.Quote(text)
	}
}

func malformed(i int, c sharedDomain.SearchCriterion, op sharedDomain.Operator, err error) error {
	return sharedDomain.NewValidationError(sharedDomain.ErrMalformedCriterionValue, c.Field,
		"criterion #%d: %s for '%s'", i, err, op)
}

// ---------- ORDER BY ----------

// OrderByClause respeta el orden de la petición. Si la expresión del campo declara un alias
// se ordena por el alias. Devuelve "" si no hay ordenación.
func OrderByClause(req sharedDomain.SearchRequest, reg *sharedDomain.FieldRegistry) (string, error) {
	if len(req.Sort) == 0 {
		return "", nil
	}
	terms := make([]string, 0, len(req.Sort))
	for i, s := range req.Sort {
		expr, ok := reg.OrderExpr(s.Field)
		if !ok {
			return "", sharedDomain.NewValidationError(sharedDomain.ErrInvalidSortField, s.Field,
				"sort #%d: '%s' is not a supported sort field", i, s.Field)
		}
		dir, ok := s.Direction()
		if !ok {
			return "", sharedDomain.NewValidationError(sharedDomain.ErrInvalidSortOrder, s.Field,
				"sort #%d: '%s' is not supported, only 'ASC' and 'DESC' are", i, s.Order)
		}
		terms = append(terms, expr+" "+dir)
	}
	return "ORDER BY " + strings.Join(terms, ", "), nil
}

// ---------- LIMIT / OFFSET ----------

// Window calcula la ventana de filas de la petición; ok=false si no está paginada.
func Window(req sharedDomain.SearchRequest) (OffsetPagination, bool, error) {
	if !req.Paginated() {
		return OffsetPagination{}, false, nil
	}
	if req.Page <= 0 || req.PageSize <= 0 {
		return OffsetPagination{}, false, sharedDomain.NewValidationError(sharedDomain.ErrInvalidPaginationSpecification, "",
			"page number %d and page size %d must both be positive", req.Page, req.PageSize)
	}
	return OffsetPagination{Limit: req.PageSize, Offset: req.Offset()}, true, nil
}

// PaginationClause devuelve "LIMIT n OFFSET m" o "" si la petición no está paginada.
func PaginationClause(req sharedDomain.SearchRequest) (string, error) {
	p, ok, err := Window(req)
	if err != nil || !ok {
		return "", err
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", p.Limit, p.Offset), nil
}

package query

import (
	"strings"

	sharedDomain "github.com/davicafu/hexasearch/internal/shared/domain"
)

// Source es el origen de datos de una entidad: la cláusula FROM (con sus JOIN) y un filtro
// base opcional que se aplica siempre. Ambos son texto de confianza definido por el repositorio.
// Dialect es el del motor que ejecutará el SQL.
type Source struct {
	From    string
	Filter  string
	Dialect Dialect
}

func (s Source) fromClause() string {
	from := strings.TrimSpace(s.From)
	if len(from) < 5 || !strings.EqualFold(from[:5], "FROM ") {
		from = "FROM " + from
	}
	return from
}

// Statement es el resultado de compilar una búsqueda.
type Statement struct {
	SQL        string
	CountSQL   string
	Paginated  bool
	Pagination OffsetPagination
}

// Compile valida la petición y, si es válida, genera la consulta de datos y la de conteo.
// Ante cualquier violación no se genera SQL.
func Compile(req sharedDomain.SearchRequest, reg *sharedDomain.FieldRegistry, src Source) (Statement, error) {
	if err := sharedDomain.Validate(req, reg); err != nil {
		return Statement{}, err
	}
	return Assemble(req, reg, src)
}

// Assemble une las cláusulas en orden SELECT, FROM, WHERE, ORDER BY, LIMIT, una por línea,
// omitiendo las vacías. Asume una petición ya validada; si no lo está, falla en la primera
// violación que encuentre.
func Assemble(req sharedDomain.SearchRequest, reg *sharedDomain.FieldRegistry, src Source) (Statement, error) {
	where, err := whereClause(req.Criterion, reg, src.Filter, src.Dialect)
	if err != nil {
		return Statement{}, err
	}
	orderBy, err := OrderByClause(req, reg)
	if err != nil {
		return Statement{}, err
	}
	window, paginated, err := Window(req)
	if err != nil {
		return Statement{}, err
	}
	limit, _ := PaginationClause(req)

	sql := joinLines(SelectClause(req, reg), src.fromClause(), where, orderBy, limit)
	count, err := src.Dialect.DeriveCount(sql)
	if err != nil {
		return Statement{}, err
	}

	return Statement{
		SQL:        sql,
		CountSQL:   count,
		Paginated:  paginated,
		Pagination: window,
	}, nil
}

func joinLines(parts ...string) string {
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			lines = append(lines, p)
		}
	}
	return strings.Join(lines, "\n")
}

package query

import (
	"regexp"
	"strings"

	sharedDomain "github.com/davicafu/hexasearch/internal/shared/domain"
)

var trailingLimit = regexp.MustCompile(`(?is)\s+LIMIT\s+\d+(?:\s*,\s*\d+|\s+OFFSET\s+\d+)?\s*;?\s*$`)

type word struct {
	text string
	pos  int
}

// DeriveCount transforma una consulta de datos en su consulta de conteo. Sólo mira palabras
// clave de primer nivel: lo que va entre comillas o paréntesis (subconsultas, literales) se
// ignora. Con GROUP BY sin WHERE posterior se cuentan los grupos en una consulta anidada.
// Los literales se leen con las reglas de MySQL.
func DeriveCount(sql string) (string, error) {
	return MySQL.DeriveCount(sql)
}

// DeriveCount deriva el conteo leyendo los literales con las reglas del dialecto.
func (d Dialect) DeriveCount(sql string) (string, error) {
	stmt := strings.TrimSpace(trailingLimit.ReplaceAllString(sql, ""))
	words := topLevelWords(stmt, d.backslashEscapes())

	fromPos := -1
	for _, w := range words {
		if w.text == "FROM" {
			fromPos = w.pos
			break
		}
	}
	if fromPos < 0 {
		return "", sharedDomain.NewValidationError(sharedDomain.ErrCountQueryDerivationFailure, "",
			"cannot derive a count query, no FROM clause found")
	}

	// El ORDER BY final no cambia el conteo.
	if pos := lastPair(words, "ORDER", "BY"); pos > fromPos {
		stmt = strings.TrimSpace(stmt[:pos])
		words = wordsBefore(words, pos)
	}

	rest := stmt[fromPos:]
	groupPos := lastPair(words, "GROUP", "BY")
	if groupPos > fromPos && !hasWordAfter(words, "WHERE", groupPos) {
		return "SELECT COUNT(1) FROM (SELECT COUNT(1) " + rest + ") AS o", nil
	}
	return "SELECT COUNT(1) " + rest, nil
}

// topLevelWords devuelve las palabras (en mayúsculas) fuera de comillas y paréntesis.
func topLevelWords(s string, backslash bool) []word {
	var out []word
	depth := 0
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(s, i, backslash)
		case c == '(':
			depth++
			i++
		case c == ')':
			if depth > 0 {
				depth--
			}
			i++
		case isWordByte(c):
			start := i
			for i < len(s) && isWordByte(s[i]) {
				i++
			}
			if depth == 0 {
				out = append(out, word{text: strings.ToUpper(s[start:i]), pos: start})
			}
		default:
			i++
		}
	}
	return out
}

// skipQuoted salta un literal o identificador entrecomillado; admite comillas dobladas y,
// si backslash, también \x.
func skipQuoted(s string, i int, backslash bool) int {
	q := s[i]
	i++
	for i < len(s) {
		switch {
		case backslash && s[i] == '\\':
			i += 2
			continue
		case s[i] == q:
			if i+1 < len(s) && s[i+1] == q {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(s)
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// lastPair devuelve la posición de la última aparición de "first second" o -1.
func lastPair(words []word, first, second string) int {
	for i := len(words) - 2; i >= 0; i-- {
		if words[i].text == first && words[i+1].text == second {
			return words[i].pos
		}
	}
	return -1
}

func hasWordAfter(words []word, text string, pos int) bool {
	for _, w := range words {
		if w.pos > pos && w.text == text {
			return true
		}
	}
	return false
}

func wordsBefore(words []word, pos int) []word {
	for i, w := range words {
		if w.pos >= pos {
			return words[:i]
		}
	}
	return words
}

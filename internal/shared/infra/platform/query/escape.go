package query

import (
	"fmt"
	"strings"
)

// Profile es el conjunto de reglas de escape aplicado a un literal.
type Profile int

const (
	// DefaultProfile escapa barra invertida, comilla simple y comilla doble.
	DefaultProfile Profile = iota
	// PatternProfile añade % y _ para los operadores basados en LIKE.
	PatternProfile
)

// Dialect fija cómo lee el motor los literales entre comillas simples. El valor cero es MySQL.
type Dialect int

const (
	// MySQL interpreta la barra invertida como escape dentro de los literales (MySQL, MariaDB).
	MySQL Dialect = iota
	// Standard sigue SQL estándar: la comilla se dobla, la barra invertida es literal y los
	// LIKE declaran ESCAPE '\'. Lo usan SQLite y Postgres con standard_conforming_strings=on.
	Standard
)

var (
	defaultEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, `\"`)
	patternEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, `\"`, `%`, `\%`, `_`, `\_`)

	standardEscaper        = strings.NewReplacer(`'`, `''`)
	standardPatternEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`, `%`, `\%`, `_`, `\_`)
)

func (d Dialect) String() string {
	if d == Standard {
		return "standard"
	}
	return "mysql"
}

// Escape prepara un literal del cliente con las reglas de MySQL.
func Escape(value string, p Profile) string {
	return MySQL.Escape(value, p)
}

// Escape prepara un literal del cliente para incrustarlo entre comillas simples con las reglas
// del dialecto.
// Es la única frontera contra inyección: todo literal que llega al SQL pasa por aquí.
// Nunca se aplica a expresiones del registro, que son de confianza.
func (d Dialect) Escape(value string, p Profile) string {
	switch {
	case d == Standard && p == PatternProfile:
		return standardPatternEscaper.Replace(value)
	case d == Standard:
		return standardEscaper.Replace(value)
	case p == PatternProfile:
		return patternEscaper.Replace(value)
	}
	return defaultEscaper.Replace(value)
}

// Quote escapa con el perfil por defecto y envuelve en comillas simples.
func (d Dialect) Quote(value string) string {
	return "'" + d.Escape(value, DefaultProfile) + "'"
}

// Like renderiza "expr keyword 'prefix<texto escapado>suffix'". En Standard el carácter de
// escape de los comodines se declara con ESCAPE '\'.
func (d Dialect) Like(expr, keyword, text, prefix, suffix string) string {
	pattern := fmt.Sprintf("%s %s '%s%s%s'", expr, keyword, prefix, d.Escape(text, PatternProfile), suffix)
	if d == Standard {
		pattern += ` ESCAPE '\'`
	}
	return pattern
}

// backslashEscapes indica si una barra invertida dentro de un literal escapa el carácter siguiente.
func (d Dialect) backslashEscapes() bool {
	return d != Standard
}

package domain

import (
	"context"
	"errors"
)

// ---------- Errores de dominio ----------
var (
	// ErrSearchUnavailable marca fallos transitorios de la base de datos: se pueden reintentar.
	ErrSearchUnavailable = errors.New("user search temporarily unavailable")
)

// ---------- Interfaces (Ports) ----------

// UserSearchRepository ejecuta SQL ya compilado y validado. Nunca construye SQL a partir
// de la entrada del cliente.
type UserSearchRepository interface {
	// Search ejecuta la consulta de datos; sólo se rellenan las columnas presentes.
	Search(ctx context.Context, query string) ([]*User, error)

	// Count ejecuta la consulta de conteo (una fila, una columna).
	Count(ctx context.Context, query string) (int64, error)

	// WithTx ejecuta fn dentro de una transacción para que datos y conteo vean la misma foto.
	WithTx(ctx context.Context, fn func(repo UserSearchRepository) error) error
}

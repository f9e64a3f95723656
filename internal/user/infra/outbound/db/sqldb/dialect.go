package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sharedQuery "github.com/davicafu/hexasearch/internal/shared/infra/platform/query"
)

// ErrDialectMismatch indica que el motor no lee los literales como los escribe el dialecto.
var ErrDialectMismatch = errors.New("sql dialect does not match the database")

const dialectSample = `it's 50%_\ "ok"`

// VerifyDialect comprueba contra el motor que un literal del dialecto vuelve intacto y que un
// comodín escapado en LIKE no actúa como comodín. Se llama al arrancar, antes de servir búsquedas.
func VerifyDialect(ctx context.Context, db *sql.DB, d sharedQuery.Dialect) error {
	var echoed string
	if err := db.QueryRowContext(ctx, "SELECT "+d.Quote(dialectSample)).Scan(&echoed); err != nil {
		return fmt.Errorf("%w: %s literal rejected: %v", ErrDialectMismatch, d, err)
	}
	if echoed != dialectSample {
		return fmt.Errorf("%w: %s literal read as %q", ErrDialectMismatch, d, echoed)
	}

	checks := []struct {
		subject string
		want    int
	}{
		{subject: "x50%y", want: 1},
		{subject: "x5050y", want: 0},
	}
	for _, c := range checks {
		var got int
		query := "SELECT CASE WHEN " + d.Like(d.Quote(c.subject), "LIKE", "50%", "%", "%") + " THEN 1 ELSE 0 END"
		if err := db.QueryRowContext(ctx, query).Scan(&got); err != nil {
			return fmt.Errorf("%w: %s pattern rejected: %v", ErrDialectMismatch, d, err)
		}
		if got != c.want {
			return fmt.Errorf("%w: %s pattern for %q matched %q", ErrDialectMismatch, d, "50%", c.subject)
		}
	}
	return nil
}

package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/davicafu/hexasearch/internal/user/domain"
)

// querier lo cumplen *sql.DB y *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TransientFunc indica si un error del driver es transitorio (conexión caída, bloqueo...).
type TransientFunc func(err error) bool

// UserSearchRepo ejecuta búsquedas de usuarios sobre cualquier driver de database/sql.
// Las diferencias entre drivers quedan en su apertura y en isTransient.
type UserSearchRepo struct {
	db          *sql.DB
	q           querier
	isTransient TransientFunc
}

var _ domain.UserSearchRepository = (*UserSearchRepo)(nil)

func NewUserSearchRepo(db *sql.DB, isTransient TransientFunc) *UserSearchRepo {
	if isTransient == nil {
		isTransient = func(error) bool { return false }
	}
	return &UserSearchRepo{db: db, q: db, isTransient: isTransient}
}

func (r *UserSearchRepo) Search(ctx context.Context, query string) ([]*domain.User, error) {
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, r.wrap("search query", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, r.wrap("read columns", err)
	}

	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(scanTargets(u, columns)...); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrap("iterate rows", err)
	}
	return users, nil
}

func (r *UserSearchRepo) Count(ctx context.Context, query string) (int64, error) {
	var total int64
	if err := r.q.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, r.wrap("count query", err)
	}
	return total, nil
}

func (r *UserSearchRepo) WithTx(ctx context.Context, fn func(repo domain.UserSearchRepository) error) error {
	if r.db == nil {
		// Ya estamos dentro de una transacción.
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.wrap("begin tx", err)
	}

	if err := fn(&UserSearchRepo{q: tx, isTransient: r.isTransient}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// wrap marca los errores transitorios con domain.ErrSearchUnavailable para que el servicio reintente.
func (r *UserSearchRepo) wrap(op string, err error) error {
	if r.isTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrSearchUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// scanTargets asocia cada columna del resultado con su campo; las columnas desconocidas
// (expresiones con alias, por ejemplo) se leen y se descartan.
func scanTargets(u *domain.User, columns []string) []interface{} {
	dest := make([]interface{}, len(columns))
	for i, col := range columns {
		if target, ok := u.ScanTarget(col); ok {
			dest[i] = target
			continue
		}
		var discard interface{}
		dest[i] = &discard
	}
	return dest
}

package mocks

import (
	"context"

	"github.com/davicafu/hexasearch/internal/user/domain"
	"github.com/stretchr/testify/mock"
)

// MockUserSearchRepo es un mock de testify para domain.UserSearchRepository.
// WithTx registra la llamada y ejecuta fn contra el propio mock.
type MockUserSearchRepo struct {
	mock.Mock
}

var _ domain.UserSearchRepository = (*MockUserSearchRepo)(nil)

func (m *MockUserSearchRepo) Search(ctx context.Context, query string) ([]*domain.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserSearchRepo) Count(ctx context.Context, query string) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserSearchRepo) WithTx(ctx context.Context, fn func(repo domain.UserSearchRepository) error) error {
	m.Called(ctx)
	return fn(m)
}

package mocks

import (
	"context"

	sharedBus "github.com/davicafu/hexasearch/internal/shared/infra/platform/bus"
	"github.com/stretchr/testify/mock"
)

// MockPublisher es un mock de testify para sharedBus.EventBus.
type MockPublisher struct {
	mock.Mock
}

var _ sharedBus.EventBus = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockBatchPublisher añade PublishBatch a MockPublisher.
type MockBatchPublisher struct {
	MockPublisher
}

var _ sharedBus.BatchPublisher = (*MockBatchPublisher)(nil)

func (m *MockBatchPublisher) PublishBatch(ctx context.Context, events []interface{}) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

package mocks

import (
	"context"
	"sync"
	"time"

	sharedEvents "github.com/davicafu/hexasearch/internal/shared/events"
	"github.com/stretchr/testify/mock"
)

// MockAuditSink es un mock de testify para sharedEvents.AuditSink.
type MockAuditSink struct {
	mock.Mock
}

var _ sharedEvents.AuditSink = (*MockAuditSink)(nil)

func (m *MockAuditSink) SaveBatch(ctx context.Context, batch []sharedEvents.SearchExecuted) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// MockAuditStats es un mock de testify para sharedEvents.AuditStats.
type MockAuditStats struct {
	mock.Mock
}

var _ sharedEvents.AuditStats = (*MockAuditStats)(nil)

func (m *MockAuditStats) DailySearchCounts(ctx context.Context, entity string, from, to time.Time) ([]sharedEvents.DailySearchCount, error) {
	args := m.Called(ctx, entity, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharedEvents.DailySearchCount), args.Error(1)
}

// RecordingAuditSink guarda todo lo recibido; útil cuando la entrega es asíncrona.
type RecordingAuditSink struct {
	mu     sync.Mutex
	events []sharedEvents.SearchExecuted
}

var _ sharedEvents.AuditSink = (*RecordingAuditSink)(nil)

func (s *RecordingAuditSink) SaveBatch(ctx context.Context, batch []sharedEvents.SearchExecuted) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, batch...)
	return nil
}

func (s *RecordingAuditSink) Events() []sharedEvents.SearchExecuted {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sharedEvents.SearchExecuted, len(s.events))
	copy(out, s.events)
	return out
}

// MockAuditRecorder captura los eventos que el servicio manda auditar.
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(evt sharedEvents.SearchExecuted) {
	m.Called(evt)
}

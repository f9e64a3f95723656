package relayer

import (
	"context"
	"sync/atomic"
	"time"

	sharedEvents "github.com/davicafu/hexasearch/internal/shared/events"
	sharedUtils "github.com/davicafu/hexasearch/internal/shared/infra/utils"
	"go.uber.org/zap"
)

const (
	flushAttempts = 3
	flushDelay    = 200 * time.Millisecond
)

// AuditWorker acumula búsquedas auditadas en memoria y las vuelca por lotes en un AuditSink.
// Record nunca bloquea la petición: si la cola está llena el evento se descarta. Los eventos
// descartados, por cola llena o por lote fallido, se cuentan en Dropped.
type AuditWorker struct {
	sink      sharedEvents.AuditSink
	queue     chan sharedEvents.SearchExecuted
	interval  time.Duration
	batchSize int
	dropped   atomic.Uint64
	log       *zap.Logger
}

func NewAuditWorker(sink sharedEvents.AuditSink, interval time.Duration, batchSize int, log *zap.Logger) *AuditWorker {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &AuditWorker{
		sink:      sink,
		queue:     make(chan sharedEvents.SearchExecuted, batchSize*4),
		interval:  interval,
		batchSize: batchSize,
		log:       log,
	}
}

// Record encola un evento.
func (w *AuditWorker) Record(evt sharedEvents.SearchExecuted) {
	select {
	case w.queue <- evt:
	default:
		w.log.Warn("Audit queue full, dropping event",
			zap.String("event_id", evt.ID.String()),
			zap.String("entity", evt.Entity),
			zap.Uint64("dropped_total", w.dropped.Add(1)))
	}
}

// Dropped devuelve cuántos eventos se han perdido desde el arranque.
func (w *AuditWorker) Dropped() uint64 {
	return w.dropped.Load()
}

// Start inicia el bucle de volcado. Al cancelar ctx vacía lo pendiente antes de salir.
func (w *AuditWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("Audit worker iniciado", zap.Duration("interval", w.interval), zap.Int("batch_size", w.batchSize))

	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			n := w.ProcessBatch(drainCtx)
			cancel()
			w.log.Info("Audit worker detenido", zap.Int("flushed", n), zap.Uint64("dropped", w.Dropped()))
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch vuelca en lotes de batchSize todo lo encolado y devuelve cuántos eventos
// se entregaron al sink.
func (w *AuditWorker) ProcessBatch(ctx context.Context) int {
	delivered := 0
	for {
		batch := w.take()
		if len(batch) == 0 {
			return delivered
		}

		err := sharedUtils.Retry(ctx, flushAttempts, flushDelay, func() error {
			return w.sink.SaveBatch(ctx, batch)
		})
		if err != nil {
			w.log.Error("Lote de auditoría descartado tras reintentos",
				zap.Int("events", len(batch)),
				zap.Strings("event_ids", eventIDs(batch)),
				zap.Uint64("dropped_total", w.dropped.Add(uint64(len(batch)))),
				zap.Error(err))
			return delivered
		}
		delivered += len(batch)
		w.log.Debug("Lote de auditoría volcado", zap.Int("events", len(batch)))
	}
}

func (w *AuditWorker) take() []sharedEvents.SearchExecuted {
	batch := make([]sharedEvents.SearchExecuted, 0, w.batchSize)
	for len(batch) < w.batchSize {
		select {
		case evt := <-w.queue:
			batch = append(batch, evt)
		default:
			return batch
		}
	}
	return batch
}

func eventIDs(batch []sharedEvents.SearchExecuted) []string {
	ids := make([]string, len(batch))
	for i, evt := range batch {
		ids[i] = evt.ID.String()
	}
	return ids
}

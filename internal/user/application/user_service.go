package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/hexasearch/internal/shared/domain"
	sharedEvents "github.com/davicafu/hexasearch/internal/shared/events"
	sharedCache "github.com/davicafu/hexasearch/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/hexasearch/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/hexasearch/internal/shared/infra/utils"
	"github.com/davicafu/hexasearch/internal/user/domain"
)

const (
	searchAttempts = 3
	searchDelay    = 100 * time.Millisecond
)

// ErrStatsUnavailable se devuelve cuando no hay un store de auditoría consultable.
var ErrStatsUnavailable = errors.New("search statistics are not available")

// AuditRecorder recibe el registro de cada búsqueda ejecutada. No debe bloquear.
type AuditRecorder interface {
	Record(evt sharedEvents.SearchExecuted)
}

// UserService define los casos de uso de búsqueda de usuarios.
type UserService struct {
	repo     domain.UserSearchRepository
	dialect  sharedQuery.Dialect
	cache    sharedCache.Cache
	audit    AuditRecorder
	stats    sharedEvents.AuditStats
	cacheTTL int
	log      *zap.Logger
	now      func() time.Time
}

// NewUserService constructor. dialect debe ser el del motor detrás de repo.
// cache, audit y stats son opcionales (nil).
func NewUserService(
	repo domain.UserSearchRepository,
	dialect sharedQuery.Dialect,
	cache sharedCache.Cache,
	audit AuditRecorder,
	stats sharedEvents.AuditStats,
	cacheTTL time.Duration,
	log *zap.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		dialect:  dialect,
		cache:    cache,
		audit:    audit,
		stats:    stats,
		cacheTTL: int(cacheTTL / time.Second),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SearchUsers valida y compila la petición, la resuelve desde caché si puede y si no la
// ejecuta (datos y conteo en la misma transacción). Las violaciones de validación se
// devuelven tal cual, combinadas con multierr.
func (s *UserService) SearchUsers(ctx context.Context, req sharedDomain.SearchRequest) (*domain.SearchResult, error) {
	start := s.now()

	stmt, err := sharedQuery.Compile(req, domain.UserSearchRegistry, sharedQuery.Source{From: domain.UserSearchFrom, Dialect: s.dialect})
	if err != nil {
		s.log.Warn("Search request rejected",
			zap.Int("violations", len(sharedDomain.ValidationErrors(err))),
			zap.Error(err))
		return nil, err
	}
	s.log.Debug("Search compiled", zap.String("sql", stmt.SQL), zap.String("count_sql", stmt.CountSQL))

	key := sharedCache.SearchKey(domain.UserEntity, stmt.SQL)

	// 1. Intentar cache
	if cached, ok := s.fromCache(ctx, key); ok {
		s.record(req, stmt, cached, true, start)
		return cached, nil
	}

	// 2. Ir al repo con reintentos (sólo errores transitorios)
	var result *domain.SearchResult
	err = sharedUtils.RetryIf(ctx, searchAttempts, searchDelay, isTransient, func() error {
		var err error
		result, err = s.execute(ctx, req, stmt)
		return err
	})
	if err != nil {
		s.log.Error("Search execution failed", zap.String("sql", stmt.SQL), zap.Error(err))
		return nil, fmt.Errorf("search users: %w", err)
	}

	// 3. Actualizar cache en background sin bloquear la respuesta
	if s.cache != nil {
		sharedCache.AsyncCacheSet(ctx, s.cache, key, result, s.cacheTTL, s.log)
	}
	s.record(req, stmt, result, false, start)

	return result, nil
}

func (s *UserService) execute(ctx context.Context, req sharedDomain.SearchRequest, stmt sharedQuery.Statement) (*domain.SearchResult, error) {
	result := &domain.SearchResult{Page: req.Page, PageSize: req.PageSize}

	err := s.repo.WithTx(ctx, func(repo domain.UserSearchRepository) error {
		items, err := repo.Search(ctx, stmt.SQL)
		if err != nil {
			return err
		}
		result.Items = items
		result.TotalCount = int64(len(items))

		if !stmt.Paginated {
			return nil
		}
		result.TotalCount, err = repo.Count(ctx, stmt.CountSQL)
		return err
	})
	if err != nil {
		return nil, err
	}
	if result.Items == nil {
		result.Items = []*domain.User{}
	}
	return result, nil
}

func (s *UserService) fromCache(ctx context.Context, key string) (*domain.SearchResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	var cached domain.SearchResult
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		// Entrada ilegible: se descarta para que la próxima búsqueda la regenere.
		s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		sharedCache.AsyncCacheDelete(ctx, s.cache, key, s.log)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	return &cached, true
}

func (s *UserService) record(req sharedDomain.SearchRequest, stmt sharedQuery.Statement, result *domain.SearchResult, cacheHit bool, start time.Time) {
	if s.audit == nil {
		return
	}
	s.audit.Record(sharedEvents.SearchExecuted{
		ID:            uuid.New(),
		Entity:        domain.UserEntity,
		Intent:        req.Intent,
		Fields:        req.Fields,
		CriteriaCount: len(req.Criterion),
		Page:          req.Page,
		PageSize:      req.PageSize,
		Rows:          len(result.Items),
		TotalCount:    result.TotalCount,
		CacheHit:      cacheHit,
		DurationMs:    s.now().Sub(start).Milliseconds(),
		SQLHash:       sharedCache.SQLHash(stmt.SQL),
		OccurredAt:    start,
	})
}

// Intents lista los intents de búsqueda admitidos y sus campos.
func (s *UserService) Intents() []sharedDomain.Intent {
	return domain.UserSearchRegistry.Intents()
}

// SearchStats devuelve los agregados diarios de búsquedas de usuarios en [from, to].
func (s *UserService) SearchStats(ctx context.Context, from, to time.Time) ([]sharedEvents.DailySearchCount, error) {
	if s.stats == nil {
		return nil, ErrStatsUnavailable
	}
	return s.stats.DailySearchCounts(ctx, domain.UserEntity, from, to)
}

func isTransient(err error) bool {
	return errors.Is(err, domain.ErrSearchUnavailable)
}

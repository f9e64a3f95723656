package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sharedDomain "github.com/davicafu/hexasearch/internal/shared/domain"
	sharedEvents "github.com/davicafu/hexasearch/internal/shared/events"
	sharedCache "github.com/davicafu/hexasearch/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/hexasearch/internal/shared/infra/platform/query"
	"github.com/davicafu/hexasearch/internal/testutil/mocks"
	"github.com/davicafu/hexasearch/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func activeUsersRequest() sharedDomain.SearchRequest {
	return sharedDomain.SearchRequest{
		Fields:    []string{"UserLogin", "RealName"},
		Criterion: []sharedDomain.SearchCriterion{{Field: "Active", Operator: "=", Value: sharedDomain.Int(2)}},
		Sort:      []sharedDomain.SortSpecification{{Field: "UserLogin", Order: "ASC"}},
		Page:      1,
		PageSize:  10,
	}
}

func TestSearchUsers_Success(t *testing.T) {
	// ARRANGE
	repo := new(mocks.MockUserSearchRepo)
	audit := new(mocks.MockAuditRecorder)
	service := NewUserService(repo, sharedQuery.MySQL, nil, audit, nil, time.Minute, zap.NewNop())

	users := []*domain.User{{UserID: 1, UserLogin: strPtr("ana")}, {UserID: 2, UserLogin: strPtr("bob")}}
	repo.On("WithTx", mock.Anything).Return(nil).Once()
	repo.On("Search", mock.Anything, "SELECT u.UserId, u.UserLogin, u.RealName\nFROM users AS u\nWHERE u.Active = 2\nORDER BY u.UserLogin asc\nLIMIT 10 OFFSET 0").
		Return(users, nil).Once()
	repo.On("Count", mock.Anything, "SELECT COUNT(1) FROM users AS u\nWHERE u.Active = 2").Return(int64(42), nil).Once()
	audit.On("Record", mock.MatchedBy(func(e sharedEvents.SearchExecuted) bool {
		return e.Entity == domain.UserEntity && e.Rows == 2 && e.TotalCount == 42 && !e.CacheHit && e.CriteriaCount == 1
	})).Once()

	// ACT
	result, err := service.SearchUsers(context.Background(), activeUsersRequest())

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, users, result.Items)
	assert.Equal(t, int64(42), result.TotalCount)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.PageSize)
	repo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestSearchUsers_UnpaginatedSkipsCount(t *testing.T) {
	repo := new(mocks.MockUserSearchRepo)
	service := NewUserService(repo, sharedQuery.MySQL, nil, nil, nil, time.Minute, zap.NewNop())

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("Search", mock.Anything, mock.Anything).Return(nil, nil).Once()

	result, err := service.SearchUsers(context.Background(), sharedDomain.SearchRequest{Intent: "summary"})

	require.NoError(t, err)
	assert.NotNil(t, result.Items, "una página vacía se serializa como []")
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(0), result.TotalCount)
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestSearchUsers_ValidationErrorNeverReachesRepo(t *testing.T) {
	repo := new(mocks.MockUserSearchRepo)
	audit := new(mocks.MockAuditRecorder)
	service := NewUserService(repo, sharedQuery.MySQL, nil, audit, nil, time.Minute, zap.NewNop())

	_, err := service.SearchUsers(context.Background(), sharedDomain.SearchRequest{
		Fields: []string{"UserPassword"},
		Sort:   []sharedDomain.SortSpecification{{Field: "UserLogin", Order: "sideways"}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidFieldSpecification)
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidSortOrder)
	repo.AssertNotCalled(t, "WithTx", mock.Anything)
	audit.AssertNotCalled(t, "Record", mock.Anything)
}

func TestSearchUsers_RetriesTransientErrors(t *testing.T) {
	repo := new(mocks.MockUserSearchRepo)
	service := NewUserService(repo, sharedQuery.MySQL, nil, nil, nil, time.Minute, zap.NewNop())

	transient := fmt.Errorf("search query: %w: connection reset", domain.ErrSearchUnavailable)
	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("Search", mock.Anything, mock.Anything).Return(nil, transient).Twice()
	repo.On("Search", mock.Anything, mock.Anything).Return([]*domain.User{{UserID: 9}}, nil).Once()

	result, err := service.SearchUsers(context.Background(), sharedDomain.SearchRequest{Fields: []string{"*"}})

	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	repo.AssertNumberOfCalls(t, "Search", 3)
}

func TestSearchUsers_PermanentErrorIsNotRetried(t *testing.T) {
	repo := new(mocks.MockUserSearchRepo)
	service := NewUserService(repo, sharedQuery.MySQL, nil, nil, nil, time.Minute, zap.NewNop())

	permanent := errors.New("no such column")
	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("Search", mock.Anything, mock.Anything).Return(nil, permanent)

	_, err := service.SearchUsers(context.Background(), sharedDomain.SearchRequest{Fields: []string{"*"}})

	assert.ErrorIs(t, err, permanent)
	repo.AssertNumberOfCalls(t, "Search", 1)
}

func TestSearchUsers_ServedFromCache(t *testing.T) {
	repo := new(mocks.MockUserSearchRepo)
	cache := mocks.NewDummyCache()
	audit := new(mocks.MockAuditRecorder)
	service := NewUserService(repo, sharedQuery.MySQL, cache, audit, nil, time.Minute, zap.NewNop())

	req := activeUsersRequest()
	repo.On("WithTx", mock.Anything).Return(nil).Once()
	repo.On("Search", mock.Anything, mock.Anything).Return([]*domain.User{{UserID: 1, UserLogin: strPtr("ana")}}, nil).Once()
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	audit.On("Record", mock.MatchedBy(func(e sharedEvents.SearchExecuted) bool { return !e.CacheHit })).Once()
	audit.On("Record", mock.MatchedBy(func(e sharedEvents.SearchExecuted) bool { return e.CacheHit })).Once()

	first, err := service.SearchUsers(context.Background(), req)
	require.NoError(t, err)

	// La escritura en caché es asíncrona.
	require.Eventually(t, func() bool { return cache.Len() == 1 }, time.Second, 5*time.Millisecond)

	second, err := service.SearchUsers(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.TotalCount, second.TotalCount)
	assert.Equal(t, "ana", *second.Items[0].UserLogin)
	repo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestSearchUsers_UnreadableCacheEntryIsDropped(t *testing.T) {
	repo := new(mocks.MockUserSearchRepo)
	cache := mocks.NewDummyCache()
	service := NewUserService(repo, sharedQuery.MySQL, cache, nil, nil, time.Minute, zap.NewNop())

	req := sharedDomain.SearchRequest{Fields: []string{"UserLogin"}}
	compiled := "SELECT u.UserId, u.UserLogin\nFROM users AS u"
	key := sharedCache.SearchKey(domain.UserEntity, compiled)
	require.NoError(t, cache.Set(context.Background(), key, "not a result", 0))

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("Search", mock.Anything, compiled).Return([]*domain.User{}, nil)

	_, err := service.SearchUsers(context.Background(), req)

	require.NoError(t, err)
	repo.AssertCalled(t, "Search", mock.Anything, compiled)
}

func TestIntents(t *testing.T) {
	service := NewUserService(new(mocks.MockUserSearchRepo), sharedQuery.MySQL, nil, nil, nil, time.Minute, zap.NewNop())

	intents := service.Intents()

	require.Len(t, intents, 2)
	assert.Equal(t, "summary", intents[0].Name)
	assert.Equal(t, "audit", intents[1].Name)
}

func TestSearchStats(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	service := NewUserService(new(mocks.MockUserSearchRepo), sharedQuery.MySQL, nil, nil, nil, time.Minute, zap.NewNop())
	_, err := service.SearchStats(context.Background(), from, to)
	assert.ErrorIs(t, err, ErrStatsUnavailable)

	stats := new(mocks.MockAuditStats)
	stats.On("DailySearchCounts", mock.Anything, domain.UserEntity, from, to).
		Return([]sharedEvents.DailySearchCount{{Day: from, Searches: 3}}, nil).Once()
	service = NewUserService(new(mocks.MockUserSearchRepo), sharedQuery.MySQL, nil, nil, stats, time.Minute, zap.NewNop())

	counts, err := service.SearchStats(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[0].Searches)
	stats.AssertExpectations(t)
}

func TestSearchUsers_CompilesForRepoDialect(t *testing.T) {
	repo := new(mocks.MockUserSearchRepo)
	service := NewUserService(repo, sharedQuery.Standard, nil, nil, nil, time.Minute, zap.NewNop())

	repo.On("WithTx", mock.Anything).Return(nil)
	repo.On("Search", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "WHERE u.UserLogin = 'nobody'' OR 1=1 --'")
	})).Return(nil, nil).Once()

	_, err := service.SearchUsers(context.Background(), sharedDomain.SearchRequest{
		Fields:    []string{"UserLogin"},
		Criterion: []sharedDomain.SearchCriterion{{Field: "UserLogin", Operator: "=", Value: sharedDomain.Text("nobody' OR 1=1 --")}},
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

// Package service 는 데일리 챌린지 게임의 핵심 로직을 담당한다.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/park285/shotdle-server-go/internal/common/cache"
	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
	derrors "github.com/park285/shotdle-server-go/internal/daily/errors"
	devents "github.com/park285/shotdle-server-go/internal/daily/events"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
	dredis "github.com/park285/shotdle-server-go/internal/daily/redis"
	drepo "github.com/park285/shotdle-server-go/internal/daily/repository"
)

// 티어 구성은 생성 후 불변이므로 넉넉한 TTL로 캐싱한다.
const (
	tierLayoutCacheSize = 256
	tierLayoutCacheTTL  = 10 * time.Minute
)

// SessionStateStore: 세션 라이브 상태 저장소 동작. (*dredis.SessionStore 가 구현)
type SessionStateStore interface {
	SaveState(ctx context.Context, state dmodel.SessionState) error
	LoadState(ctx context.Context, sessionID string) (*dmodel.SessionState, error)
	SessionExists(ctx context.Context, sessionID string) (bool, error)
	BindUserSession(ctx context.Context, userID string, challengeID int64, sessionID string) error
	FindUserSession(ctx context.Context, userID string, challengeID int64) (string, error)
}

// SessionService: 데일리 챌린지 세션의 시작/추측/이동/종료 로직을 담당하는 서비스
// 모든 뮤테이션은 세션 락 아래에서 단일 작성자로 수행된다.
type SessionService struct {
	repo         *drepo.Repository
	sessionStore SessionStateStore
	lockManager  *dredis.LockManager
	publisher    *devents.CompletionPublisher

	statsRecorder *StatsRecorder

	clock   clockwork.Clock
	scoring dconfig.ScoringConfig

	tierLayoutCache *cache.TTLLRUCache[[]drepo.TierScreenshot]

	logger *slog.Logger
}

// NewSessionService: 새로운 SessionService 인스턴스를 생성한다.
func NewSessionService(
	repo *drepo.Repository,
	sessionStore SessionStateStore,
	lockManager *dredis.LockManager,
	publisher *devents.CompletionPublisher,
	statsRecorder *StatsRecorder,
	clock clockwork.Clock,
	scoring dconfig.ScoringConfig,
	logger *slog.Logger,
) *SessionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SessionService{
		repo:            repo,
		sessionStore:    sessionStore,
		lockManager:     lockManager,
		publisher:       publisher,
		statsRecorder:   statsRecorder,
		clock:           clock,
		scoring:         scoring,
		tierLayoutCache: cache.NewTTLLRUCache[[]drepo.TierScreenshot](tierLayoutCacheSize, tierLayoutCacheTTL),
		logger:          logger,
	}
}

// loadOwnedState: 세션 상태를 조회하고 요청자가 소유자인지 확인한다.
func (s *SessionService) loadOwnedState(ctx context.Context, sessionID string, userID string) (*dmodel.SessionState, error) {
	sessionID = strings.TrimSpace(sessionID)
	userID = strings.TrimSpace(userID)
	if sessionID == "" {
		return nil, derrors.SessionNotFoundError{}
	}

	state, err := s.sessionStore.LoadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, derrors.SessionNotFoundError{SessionID: sessionID}
	}
	if state.UserID != userID {
		return nil, derrors.ForbiddenError{SessionID: sessionID, UserID: userID}
	}
	return state, nil
}

// tierLayout: 티어의 포지션-스크린샷 바인딩을 조회한다. (캐시 적용)
func (s *SessionService) tierLayout(ctx context.Context, tierID int64) ([]drepo.TierScreenshot, error) {
	cacheKey := strconv.FormatInt(tierID, 10)
	if layout, ok := s.tierLayoutCache.Get(cacheKey); ok {
		return layout, nil
	}

	layout, err := s.repo.GetTierScreenshots(ctx, tierID)
	if err != nil {
		return nil, fmt.Errorf("load tier layout failed: %w", err)
	}
	if len(layout) > 0 {
		s.tierLayoutCache.Set(cacheKey, layout)
	}
	return layout, nil
}

// bindingAt: 티어 구성에서 포지션에 해당하는 바인딩을 찾는다.
func bindingAt(layout []drepo.TierScreenshot, position int) (*drepo.TierScreenshot, bool) {
	for i := range layout {
		if layout[i].Position == position {
			return &layout[i], true
		}
	}
	return nil, false
}

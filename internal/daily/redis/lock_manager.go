package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	cerrors "github.com/park285/shotdle-server-go/internal/common/errors"
	"github.com/park285/shotdle-server-go/internal/common/lockutil"
	luautil "github.com/park285/shotdle-server-go/internal/common/lua"
	"github.com/park285/shotdle-server-go/internal/common/valkeyx"
	dassets "github.com/park285/shotdle-server-go/internal/daily/assets"
	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
)

// LockManager: Redis Lua 스크립트를 활용하여 세션 단위 배타 락을 관리하는 컴포넌트
// 세션 뮤테이션은 수백 ms 안에 끝나므로 갱신 워치독 없이 TTL 백스톱으로 충분하다.
type LockManager struct {
	client valkey.Client
	logger *slog.Logger

	registry         *luautil.Registry
	redisCallTimeout time.Duration
}

// NewLockManager: 새로운 LockManager 인스턴스를 생성하고 Redis 클라이언트를 설정한다.
func NewLockManager(client valkey.Client, logger *slog.Logger) *LockManager {
	registry := luautil.NewRegistry([]luautil.Script{
		{Name: luautil.ScriptLockAcquire, Source: dassets.LockAcquireLua},
		{Name: luautil.ScriptLockRelease, Source: dassets.LockReleaseLua},
	})
	if err := registry.Preload(context.Background(), client); err != nil && logger != nil {
		logger.Warn("lua_preload_failed", "component", "daily_lock_manager", "err", err)
	}
	return &LockManager{
		client:           client,
		logger:           logger,
		registry:         registry,
		redisCallTimeout: 5 * time.Second,
	}
}

// 락 획득 재시도 설정
// 경합 상황에서 즉시 실패 대신 짧은 간격으로 재시도하여 성공률 향상.
const (
	lockRetryMaxAttempts   = 3
	lockRetryInitialDelay  = 50 * time.Millisecond
	lockRetryMaxDelay      = 500 * time.Millisecond
	lockRetryDelayMultiply = 2
)

// WithSessionLock: 세션 배타 락을 획득한 상태에서 작업을 수행한다. (재진입 가능, Context Scope)
// 재시도 후에도 락을 얻지 못하면 cerrors.LockError 를 반환한다.
func (m *LockManager) WithSessionLock(ctx context.Context, sessionID string, block func(ctx context.Context) error) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is empty")
	}

	scope, ok := lockutil.ScopeFromContext(ctx)
	if !ok {
		scope = lockutil.NewScope()
		ctx = lockutil.WithScope(ctx, scope)
	}

	key := lockKey(sessionID)
	if scope.IncrementIfHeld(key) {
		defer scope.Decrement(key)
		return block(ctx)
	}

	token, err := lockutil.NewToken()
	if err != nil {
		return fmt.Errorf("generate lock token failed: %w", err)
	}

	ttlMillis := lockutil.TTLMillisFromSeconds(int64(dconfig.RedisLockTTLSeconds))

	acquired, acquireErr := m.acquireWithRetry(ctx, sessionID, token, ttlMillis)
	if acquireErr != nil {
		return acquireErr
	}
	if !acquired {
		return cerrors.LockError{
			SessionID:   sessionID,
			Description: "failed to acquire lock after retries",
		}
	}

	defer m.releaseIfLast(ctx, scope, key, sessionID)

	scope.Set(key, lockutil.HeldLock{
		Token: token,
		Count: 1,
	})

	m.logger.Debug("lock_acquired", "session_id", sessionID)
	return block(ctx)
}

func (m *LockManager) acquireWithRetry(ctx context.Context, sessionID string, token string, ttlMillis int64) (bool, error) {
	delay := lockRetryInitialDelay

	for attempt := 0; attempt < lockRetryMaxAttempts; attempt++ {
		acquired, err := m.acquire(ctx, sessionID, token, ttlMillis)
		if err != nil {
			return false, err
		}
		if acquired {
			if attempt > 0 {
				m.logger.Debug("lock_acquired_after_retry", "session_id", sessionID, "attempt", attempt+1)
			}
			return true, nil
		}

		// 마지막 시도면 재시도 없이 종료
		if attempt == lockRetryMaxAttempts-1 {
			break
		}

		// Context 취소 확인 후 대기
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return false, fmt.Errorf("lock acquire canceled: %w", ctx.Err())
		case <-timer.C:
			delay = min(delay*lockRetryDelayMultiply, lockRetryMaxDelay)
		}
	}

	m.logger.Debug("lock_acquire_failed_after_retries", "session_id", sessionID, "attempts", lockRetryMaxAttempts)
	return false, nil
}

func (m *LockManager) acquire(ctx context.Context, sessionID string, token string, ttlMillis int64) (bool, error) {
	resp, err := m.registry.Exec(ctx, m.client, luautil.ScriptLockAcquire,
		[]string{lockKey(sessionID)},
		[]string{token, strconv.FormatInt(ttlMillis, 10)})
	if err != nil {
		return false, fmt.Errorf("lock acquire script missing: %w", err)
	}
	n, err := valkeyx.ParseLuaInt64(resp)
	if err != nil {
		return false, cerrors.RedisError{Operation: "lock_acquire", Err: err}
	}
	return n == 1, nil
}

func (m *LockManager) release(ctx context.Context, sessionID string, token string) error {
	resp, err := m.registry.Exec(ctx, m.client, luautil.ScriptLockRelease,
		[]string{lockKey(sessionID)},
		[]string{token})
	if err != nil {
		return fmt.Errorf("lock release script missing: %w", err)
	}
	if _, err := valkeyx.ParseLuaInt64(resp); err != nil {
		return cerrors.RedisError{Operation: "lock_release", Err: err}
	}
	return nil
}

func (m *LockManager) releaseIfLast(ctx context.Context, scope *lockutil.Scope, key string, sessionID string) {
	held, shouldRelease := scope.ReleaseIfLast(key)
	if !shouldRelease {
		return
	}

	releaseCtx, releaseCancel := context.WithTimeout(context.WithoutCancel(ctx), m.redisCallTimeout)
	defer releaseCancel()

	if err := m.release(releaseCtx, sessionID, held.Token); err != nil {
		m.logger.Warn("lock_release_failed", "err", err, "session_id", sessionID)
		return
	}
	m.logger.Debug("lock_released", "session_id", sessionID)
}

package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/shotdle-server-go/internal/common/gamesession"
	"github.com/park285/shotdle-server-go/internal/common/valkeyx"
	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
)

// SessionStore: 데일리 챌린지 세션의 라이브 상태를 Redis에 JSON 형태로 저장하고 관리하는 저장소
// 공통 gamesession.Store를 내부적으로 사용하여 핵심 CRUD 로직을 위임합니다.
// 유저별 활성 세션 인덱스(userID+challengeID -> sessionID)도 함께 관리합니다.
type SessionStore struct {
	base   *gamesession.Store[dmodel.SessionState]
	client valkey.Client
	ttl    time.Duration
}

// NewSessionStore: 새로운 SessionStore 인스턴스를 생성합니다.
func NewSessionStore(client valkey.Client, logger *slog.Logger) *SessionStore {
	ttl := time.Duration(dconfig.RedisSessionTTLSeconds) * time.Second
	return &SessionStore{
		base: gamesession.NewStore[dmodel.SessionState](client, logger, gamesession.Config{
			KeyFunc: sessionKey,
			TTL:     ttl,
		}),
		client: client,
		ttl:    ttl,
	}
}

// SaveState: 세션 상태를 JSON으로 직렬화하여 Redis에 저장합니다. (TTL 갱신 포함)
func (s *SessionStore) SaveState(ctx context.Context, state dmodel.SessionState) error {
	if err := s.base.Save(ctx, state.SessionID, state); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

// LoadState: Redis에 저장된 JSON 데이터를 조회하여 SessionState로 역직렬화합니다.
// 데이터가 없거나 만료된 경우 nil을 반환합니다.
func (s *SessionStore) LoadState(ctx context.Context, sessionID string) (*dmodel.SessionState, error) {
	state, err := s.base.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}
	return state, nil
}

// DeleteSession: 세션 상태를 Redis에서 영구 삭제합니다.
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.base.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SessionExists: 세션이 존재하는지 확인합니다.
func (s *SessionStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	exists, err := s.base.Exists(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return exists, nil
}

// BindUserSession: 유저+챌린지 조합에 활성 세션 ID를 기록한다. (시작 멱등성 인덱스)
func (s *SessionStore) BindUserSession(ctx context.Context, userID string, challengeID int64, sessionID string) error {
	key := userSessionKey(userID, challengeID)
	if err := valkeyx.SetStringEX(ctx, s.client, key, strings.TrimSpace(sessionID), s.ttl); err != nil {
		return fmt.Errorf("bind user session: %w", err)
	}
	return nil
}

// FindUserSession: 유저+챌린지 조합의 활성 세션 ID를 조회한다. 없으면 빈 문자열.
func (s *SessionStore) FindUserSession(ctx context.Context, userID string, challengeID int64) (string, error) {
	key := userSessionKey(userID, challengeID)
	raw, ok, err := valkeyx.GetBytes(ctx, s.client, key)
	if err != nil {
		return "", fmt.Errorf("find user session: %w", err)
	}
	if !ok {
		return "", nil
	}
	return string(raw), nil
}

// UnbindUserSession: 유저+챌린지 인덱스를 삭제한다.
func (s *SessionStore) UnbindUserSession(ctx context.Context, userID string, challengeID int64) error {
	key := userSessionKey(userID, challengeID)
	if err := valkeyx.DeleteKeys(ctx, s.client, key); err != nil {
		return fmt.Errorf("unbind user session: %w", err)
	}
	return nil
}

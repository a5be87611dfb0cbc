package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	derrors "github.com/park285/shotdle-server-go/internal/daily/errors"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
	drepo "github.com/park285/shotdle-server-go/internal/daily/repository"
)

// Forfeit: 세션을 포기 처리하고 최종 스냅샷을 반환한다.
// 종료된 세션에 대한 재호출은 SessionCompletedError 로 거부된다.
func (s *SessionService) Forfeit(ctx context.Context, sessionID string, userID string) (*dmodel.Snapshot, error) {
	var snapshot *dmodel.Snapshot

	err := s.lockManager.WithSessionLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.loadOwnedState(ctx, sessionID, userID)
		if err != nil {
			return err
		}
		if state.Completed {
			return derrors.SessionCompletedError{SessionID: sessionID, Reason: string(state.CompletionReason)}
		}

		now := s.clock.Now()
		reason := dmodel.CompletionForfeited
		if state.TimeExpired(now) {
			// 포기 요청보다 시간 만료가 먼저다.
			reason = dmodel.CompletionTimeExpired
		}

		completed, err := s.finalizeLocked(ctx, *state, reason, now)
		if err != nil {
			return err
		}

		snap := completed.ToSnapshot(now)
		snapshot = &snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// GetSnapshot: 세션의 현재 스냅샷을 반환한다.
// 제한 시간이 지나 있으면 이 조회 시점에 만료 종료를 확정한다. (lazy expiry)
func (s *SessionService) GetSnapshot(ctx context.Context, sessionID string, userID string) (*dmodel.Snapshot, error) {
	var snapshot *dmodel.Snapshot

	err := s.lockManager.WithSessionLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.loadOwnedState(ctx, sessionID, userID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		current, _, err := s.expireIfNeededLocked(ctx, *state, now)
		if err != nil {
			return err
		}

		snap := current.ToSnapshot(now)
		snapshot = &snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// expireIfNeededLocked: 제한 시간이 지난 세션을 만료 종료로 확정한다.
// 세션 락을 보유한 상태에서 호출해야 한다.
func (s *SessionService) expireIfNeededLocked(
	ctx context.Context,
	state dmodel.SessionState,
	now time.Time,
) (dmodel.SessionState, bool, error) {
	if state.Completed || !state.TimeExpired(now) {
		return state, false, nil
	}

	completed, err := s.finalizeLocked(ctx, state, dmodel.CompletionTimeExpired, now)
	if err != nil {
		return state, false, err
	}
	return completed, true, nil
}

// finalizeLocked: 세션을 종료 상태로 확정하고 완료 기록/이벤트/통계를 반영한다.
// 완료 기록(DB)이 멱등성의 기준점이므로 라이브 상태보다 먼저 쓴다.
// 세션 락을 보유한 상태에서 호출해야 한다.
func (s *SessionService) finalizeLocked(
	ctx context.Context,
	state dmodel.SessionState,
	reason dmodel.CompletionReason,
	now time.Time,
) (dmodel.SessionState, error) {
	completed := state.MarkCompleted(reason, now)

	if err := s.repo.RecordCompletedSession(ctx, drepo.CompletedSessionParams{
		SessionID:        completed.SessionID,
		UserID:           completed.UserID,
		ChallengeID:      completed.ChallengeID,
		TierID:           completed.TierID,
		TotalScore:       completed.TotalScore,
		WrongGuesses:     completed.WrongGuesses,
		CompletionReason: string(reason),
		StartedAt:        completed.StartedAt,
		TierStartedAt:    completed.TierStartedAt,
		CompletedAt:      now,
	}); err != nil {
		return state, fmt.Errorf("finalize session failed: %w", err)
	}

	if err := s.sessionStore.SaveState(ctx, completed); err != nil {
		return state, err
	}

	record := dmodel.CompletionRecord{
		SessionID:   completed.SessionID,
		UserID:      completed.UserID,
		ChallengeID: completed.ChallengeID,
		TotalScore:  completed.TotalScore,
		Reason:      reason,
		CompletedAt: now,
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, record); err != nil {
			s.logger.Warn("completion_event_publish_failed", "session_id", completed.SessionID, "err", err)
		}
	}

	s.statsRecorder.RecordCompletion(ctx, record, completed.WrongGuesses)

	s.logger.Info("session_completed",
		"session_id", completed.SessionID,
		"user_id", completed.UserID,
		"reason", string(reason),
		"total_score", completed.TotalScore,
		"wrong_guesses", completed.WrongGuesses,
	)
	return completed, nil
}

// HasSession 세션 존재 여부 확인.
func (s *SessionService) HasSession(ctx context.Context, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}
	exists, err := s.sessionStore.SessionExists(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("session exists check failed: %w", err)
	}
	return exists, nil
}

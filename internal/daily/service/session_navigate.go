package service

import (
	"context"

	derrors "github.com/park285/shotdle-server-go/internal/daily/errors"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
)

// Navigate: 현재 포지션 포인터를 지정한 포지션으로 이동한다.
// 이미 맞힌 포지션으로의 이동도 허용된다. (추측만 차단됨)
func (s *SessionService) Navigate(ctx context.Context, sessionID string, userID string, position int) (*dmodel.Snapshot, error) {
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
		if state.TimeExpired(now) {
			if _, _, err := s.expireIfNeededLocked(ctx, *state, now); err != nil {
				return err
			}
			return derrors.SessionCompletedError{SessionID: sessionID, Reason: string(dmodel.CompletionTimeExpired)}
		}

		if !state.ValidPosition(position) {
			return derrors.InvalidNavigationError{Position: position, Max: state.PositionCount()}
		}

		next := state.MoveTo(position)
		if err := s.sessionStore.SaveState(ctx, next); err != nil {
			return err
		}

		snap := next.ToSnapshot(now)
		snapshot = &snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Skip: 현재 포지션을 skipped로 표시하고 다음 열린 포지션으로 이동한다.
// 이동할 곳이 없으면 포인터는 현재 포지션에 남는다. (스킵된 포지션은 계속 추측 가능)
func (s *SessionService) Skip(ctx context.Context, sessionID string, userID string) (*dmodel.Snapshot, error) {
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
		if state.TimeExpired(now) {
			if _, _, err := s.expireIfNeededLocked(ctx, *state, now); err != nil {
				return err
			}
			return derrors.SessionCompletedError{SessionID: sessionID, Reason: string(dmodel.CompletionTimeExpired)}
		}

		current := state.CurrentPosition
		next := state.MarkSkipped(current)
		if target, ok := next.NextOpenPosition(current); ok {
			next = next.MoveTo(target)
		}

		if err := s.sessionStore.SaveState(ctx, next); err != nil {
			return err
		}

		s.logger.Debug("position_skipped", "session_id", sessionID, "from", current, "to", next.CurrentPosition)

		snap := next.ToSnapshot(now)
		snapshot = &snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

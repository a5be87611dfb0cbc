package service

import (
	"context"
	"time"

	derrors "github.com/park285/shotdle-server-go/internal/daily/errors"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
)

// ScreenshotView: 포지션별 스크린샷 표시용 DTO.
// 정답 게임 식별자는 절대 포함하지 않는다.
type ScreenshotView struct {
	Position        int     `json:"position"`
	ScreenshotID    int64   `json:"screenshotId"`
	ImageURL        string  `json:"imageUrl"`
	BonusMultiplier float64 `json:"bonusMultiplier"`
	RemainingMillis int64   `json:"remainingMillis"`
}

// GetCurrentScreenshot: 요청한 포지션에 바인딩된 스크린샷을 조회한다.
// position이 0 이하이면 현재 포인터의 포지션을 사용한다. 티어 범위를 벗어난
// 포지션은 InvalidPositionError 로 거부된다.
// 만료된 세션은 이 조회 시점에 종료 확정되고 SessionCompletedError 를 반환한다.
func (s *SessionService) GetCurrentScreenshot(ctx context.Context, sessionID string, position int, userID string) (*ScreenshotView, error) {
	var view *ScreenshotView

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

		if position <= 0 {
			position = state.CurrentPosition
		}
		if !state.ValidPosition(position) {
			return derrors.InvalidPositionError{
				Position: position,
				Current:  state.CurrentPosition,
				Max:      state.PositionCount(),
			}
		}

		layout, err := s.tierLayout(ctx, state.TierID)
		if err != nil {
			return err
		}
		binding, ok := bindingAt(layout, position)
		if !ok {
			return derrors.ScreenshotNotFoundError{Position: position}
		}

		screenshot, err := s.repo.GetScreenshot(ctx, binding.ScreenshotID)
		if err != nil {
			return err
		}

		remaining := int64(0)
		if state.TimeLimitSeconds > 0 {
			remainingDur := time.Duration(state.TimeLimitSeconds)*time.Second - state.Elapsed(now)
			if remainingDur > 0 {
				remaining = remainingDur.Milliseconds()
			}
		}

		view = &ScreenshotView{
			Position:        position,
			ScreenshotID:    screenshot.ID,
			ImageURL:        screenshot.ImageURL,
			BonusMultiplier: binding.BonusMultiplier,
			RemainingMillis: remaining,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

package service

import (
	"context"
	"strings"

	derrors "github.com/park285/shotdle-server-go/internal/daily/errors"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
	drepo "github.com/park285/shotdle-server-go/internal/daily/repository"
)

// GuessParams: 추측 제출 파라미터 구조체
// 판정은 GameID 식별자 비교로만 수행한다. GuessText는 감사 이력에만 기록되고
// 정오 판정에는 사용되지 않는다. (근사 문자열로 정답을 맞히는 것 방지)
type GuessParams struct {
	SessionID string
	UserID    string
	Position  int
	GameID    *int64
	GuessText string
}

// SubmitGuess: 현재 포지션에 대한 추측을 판정하고 상태를 갱신한다.
// 판정/점수 계산은 전부 서버 시계 기준이며 세션 락 아래에서 수행된다.
func (s *SessionService) SubmitGuess(ctx context.Context, p GuessParams) (*dmodel.GuessOutcome, error) {
	var outcome *dmodel.GuessOutcome

	err := s.lockManager.WithSessionLock(ctx, p.SessionID, func(ctx context.Context) error {
		state, err := s.loadOwnedState(ctx, p.SessionID, p.UserID)
		if err != nil {
			return err
		}
		if state.Completed {
			return derrors.SessionCompletedError{SessionID: p.SessionID, Reason: string(state.CompletionReason)}
		}

		now := s.clock.Now()

		// 시간 만료는 이 제출 시점에 확정된다. 제출 자체는 판정하지 않는다.
		if state.TimeExpired(now) {
			if _, _, err := s.expireIfNeededLocked(ctx, *state, now); err != nil {
				return err
			}
			return derrors.SessionCompletedError{SessionID: p.SessionID, Reason: string(dmodel.CompletionTimeExpired)}
		}

		if !state.ValidPosition(p.Position) || p.Position != state.CurrentPosition {
			return derrors.InvalidPositionError{
				Position: p.Position,
				Current:  state.CurrentPosition,
				Max:      state.PositionCount(),
			}
		}
		if state.StatusAt(p.Position) == dmodel.PositionCorrect {
			return derrors.AlreadySolvedError{Position: p.Position}
		}

		layout, err := s.tierLayout(ctx, state.TierID)
		if err != nil {
			return err
		}
		binding, ok := bindingAt(layout, p.Position)
		if !ok {
			return derrors.ScreenshotNotFoundError{Position: p.Position}
		}

		screenshot, err := s.repo.GetScreenshot(ctx, binding.ScreenshotID)
		if err != nil {
			return err
		}

		if p.GameID == nil && strings.TrimSpace(p.GuessText) == "" {
			return derrors.ValidationError{Field: "guess", Reason: "empty"}
		}

		// 정오 판정은 식별자 일치로만 결정된다. GameID가 없는 제출은 오답이다.
		correct := p.GameID != nil && *p.GameID == screenshot.GameID

		elapsed := state.Elapsed(now)
		var awarded int64
		next := *state

		if correct {
			awarded = AwardedPoints(s.scoring, elapsed, binding.BonusMultiplier)
			next = next.MarkCorrect(p.Position, awarded)
		} else {
			next = next.ApplyPenalty(s.scoring.WrongGuessPenalty)
		}

		if correct && next.AllCorrect() {
			completed, err := s.finalizeLocked(ctx, next, dmodel.CompletionAllCorrect, now)
			if err != nil {
				return err
			}
			s.recordGuess(ctx, *state, p, binding.ScreenshotID, correct, elapsed.Milliseconds(), awarded)
			outcome = &dmodel.GuessOutcome{
				Correct:       true,
				AwardedPoints: awarded,
				TotalScore:    completed.TotalScore,
				Position:      p.Position,
				Completed:     true,
				Reason:        dmodel.CompletionAllCorrect,
			}
			return nil
		}

		if correct {
			if target, ok := next.NextOpenPosition(p.Position); ok {
				next = next.MoveTo(target)
			}
		}

		// 감사 이력은 상태 저장이 성공한 뒤에만 남긴다.
		// 저장 실패 후 재시도가 같은 제출을 두 번 기록하는 것 방지.
		if err := s.sessionStore.SaveState(ctx, next); err != nil {
			return err
		}
		s.recordGuess(ctx, *state, p, binding.ScreenshotID, correct, elapsed.Milliseconds(), awarded)

		s.logger.Debug("guess_judged",
			"session_id", p.SessionID,
			"position", p.Position,
			"correct", correct,
			"awarded", awarded,
			"total_score", next.TotalScore,
		)

		outcome = &dmodel.GuessOutcome{
			Correct:       correct,
			AwardedPoints: awarded,
			TotalScore:    next.TotalScore,
			Position:      p.Position,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// recordGuess: 추측 1건을 감사 이력으로 기록한다. 실패해도 판정 결과는 유지한다.
func (s *SessionService) recordGuess(
	ctx context.Context,
	state dmodel.SessionState,
	p GuessParams,
	screenshotID int64,
	correct bool,
	elapsedMillis int64,
	awarded int64,
) {
	if err := s.repo.RecordGuess(ctx, drepo.GuessParams{
		SessionID:       state.SessionID,
		TierID:          state.TierID,
		ScreenshotID:    screenshotID,
		Position:        p.Position,
		SubmittedGameID: p.GameID,
		GuessText:       normalizeGuessText(p.GuessText),
		Correct:         correct,
		ElapsedMillis:   elapsedMillis,
		AwardedPoints:   awarded,
	}); err != nil {
		s.logger.Warn("guess_record_failed", "session_id", state.SessionID, "position", p.Position, "err", err)
	}
}

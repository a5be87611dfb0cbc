package repository

import (
	"context"
	"fmt"
	"strings"

	cerrors "github.com/park285/shotdle-server-go/internal/common/errors"
)

// GuessParams: 추측 기록 파라미터 구조체
type GuessParams struct {
	SessionID       string
	TierID          int64
	ScreenshotID    int64
	Position        int
	SubmittedGameID *int64
	GuessText       string
	Correct         bool
	ElapsedMillis   int64
	AwardedPoints   int64
}

// RecordGuess: 추측 1건을 append-only 로 기록한다.
func (r *Repository) RecordGuess(ctx context.Context, p GuessParams) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	p.SessionID = strings.TrimSpace(p.SessionID)
	if p.SessionID == "" {
		return nil
	}

	entity := Guess{
		SessionID:       p.SessionID,
		TierID:          p.TierID,
		ScreenshotID:    p.ScreenshotID,
		Position:        p.Position,
		SubmittedGameID: p.SubmittedGameID,
		GuessText:       p.GuessText,
		Correct:         p.Correct,
		ElapsedMillis:   p.ElapsedMillis,
		AwardedPoints:   p.AwardedPoints,
	}

	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return cerrors.DatabaseError{Operation: "record_guess", Err: err}
	}
	return nil
}

// CountSessionGuesses: 세션의 추측 수를 조회한다.
func (r *Repository) CountSessionGuesses(ctx context.Context, sessionID string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("db is nil")
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&Guess{}).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count session guesses failed: %w", err)
	}
	return count, nil
}

// ListSessionGuesses: 세션의 추측 이력을 제출 순서대로 조회한다.
func (r *Repository) ListSessionGuesses(ctx context.Context, sessionID string, limit int) ([]Guess, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if limit <= 0 {
		limit = 100
	}

	var guesses []Guess
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Order("id ASC").
		Limit(limit).
		Find(&guesses).Error; err != nil {
		return nil, fmt.Errorf("list session guesses failed: %w", err)
	}
	return guesses, nil
}

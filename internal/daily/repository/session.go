package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cerrors "github.com/park285/shotdle-server-go/internal/common/errors"
)

// CompletedSessionParams: 완료 세션 기록 파라미터 구조체
type CompletedSessionParams struct {
	SessionID        string
	UserID           string
	ChallengeID      int64
	TierID           int64
	TotalScore       int64
	WrongGuesses     int
	CompletionReason string
	StartedAt        time.Time
	TierStartedAt    time.Time
	CompletedAt      time.Time
}

// RecordCompletedSession: 완료된 세션을 영속 기록한다.
// session_id 유니크 충돌 시 DoNothing 으로 멱등하게 처리한다.
func (r *Repository) RecordCompletedSession(ctx context.Context, p CompletedSessionParams) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	p.SessionID = strings.TrimSpace(p.SessionID)
	p.UserID = strings.TrimSpace(p.UserID)
	if p.SessionID == "" || p.UserID == "" {
		return nil
	}

	session := GameSession{
		SessionID:        p.SessionID,
		UserID:           p.UserID,
		ChallengeID:      p.ChallengeID,
		TotalScore:       p.TotalScore,
		Completed:        true,
		CompletionReason: p.CompletionReason,
		StartedAt:        p.StartedAt,
		CompletedAt:      &p.CompletedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoNothing: true,
		}).Create(&session).Error; err != nil {
			return err
		}

		tierSession := TierSession{
			SessionID:    p.SessionID,
			TierID:       p.TierID,
			WrongGuesses: p.WrongGuesses,
			StartedAt:    p.TierStartedAt,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "session_id"},
				{Name: "tier_id"},
			},
			DoNothing: true,
		}).Create(&tierSession).Error
	})
	if err != nil {
		return cerrors.DatabaseError{Operation: "record_completed_session", Err: err}
	}
	return nil
}

// FindCompletedSession: 유저가 해당 챌린지를 이미 완료했는지 조회한다.
// 완료 기록이 없으면 (nil, nil) 을 반환한다.
func (r *Repository) FindCompletedSession(ctx context.Context, userID string, challengeID int64) (*GameSession, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	userID = strings.TrimSpace(userID)
	var session GameSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ? AND completed = ?", userID, challengeID, true).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find completed session failed: %w", err)
	}
	return &session, nil
}

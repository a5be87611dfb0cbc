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
	"github.com/park285/shotdle-server-go/internal/daily/model"
)

// PlayerCompletionParams: 통계 반영용 완료 파라미터 구조체
type PlayerCompletionParams struct {
	UserID       string
	Reason       model.CompletionReason
	TotalScore   int64
	WrongGuesses int
	CompletedAt  time.Time
	Now          time.Time
}

// RecordPlayerCompletion: 완료 1건을 사용자 통계에 반영한다.
func (r *Repository) RecordPlayerCompletion(ctx context.Context, p PlayerCompletionParams) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	p.UserID = strings.TrimSpace(p.UserID)
	if p.UserID == "" {
		return nil
	}

	allCorrectInc := 0
	timeExpiredInc := 0
	forfeitedInc := 0
	switch p.Reason {
	case model.CompletionAllCorrect:
		allCorrectInc = 1
	case model.CompletionTimeExpired:
		timeExpiredInc = 1
	case model.CompletionForfeited:
		forfeitedInc = 1
	}

	entity := PlayerStats{
		UserID:            p.UserID,
		TotalAttempts:     1,
		TotalAllCorrect:   allCorrectInc,
		TotalTimeExpired:  timeExpiredInc,
		TotalForfeited:    forfeitedInc,
		TotalWrongGuesses: p.WrongGuesses,
		TotalPoints:       p.TotalScore,
		BestScore:         p.TotalScore,
		BestScoreAt:       &p.CompletedAt,
		CreatedAt:         p.Now,
		UpdatedAt:         p.Now,
		Version:           0,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_attempts":      gorm.Expr("\"player_stats\".\"total_attempts\" + 1"),
				"total_all_correct":   gorm.Expr("\"player_stats\".\"total_all_correct\" + ?", allCorrectInc),
				"total_time_expired":  gorm.Expr("\"player_stats\".\"total_time_expired\" + ?", timeExpiredInc),
				"total_forfeited":     gorm.Expr("\"player_stats\".\"total_forfeited\" + ?", forfeitedInc),
				"total_wrong_guesses": gorm.Expr("\"player_stats\".\"total_wrong_guesses\" + ?", p.WrongGuesses),
				"total_points":        gorm.Expr("\"player_stats\".\"total_points\" + ?", p.TotalScore),
				"updated_at":          p.Now,
				"version":             gorm.Expr("\"player_stats\".\"version\" + 1"),
			}),
		}).Create(&entity).Error; err != nil {
			return err
		}

		return tx.Model(&PlayerStats{}).
			Where("user_id = ? AND best_score < ?", p.UserID, p.TotalScore).
			Updates(map[string]any{
				"best_score":    p.TotalScore,
				"best_score_at": p.CompletedAt,
			}).Error
	})
	if err != nil {
		return cerrors.DatabaseError{Operation: "record_player_completion", Err: err}
	}
	return nil
}

// GetPlayerStats: 사용자 통계를 조회한다. 기록이 없으면 0 값 통계를 반환한다.
func (r *Repository) GetPlayerStats(ctx context.Context, userID string) (*PlayerStats, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	userID = strings.TrimSpace(userID)
	var stats PlayerStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &PlayerStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player stats failed: %w", err)
	}
	return &stats, nil
}

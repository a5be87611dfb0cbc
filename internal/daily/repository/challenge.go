package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	dailyerrors "github.com/park285/shotdle-server-go/internal/daily/errors"
)

// GetChallengeByDate: 날짜 문자열(YYYY-MM-DD)로 챌린지를 조회한다.
func (r *Repository) GetChallengeByDate(ctx context.Context, date string) (*Challenge, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	date = strings.TrimSpace(date)
	var challenge Challenge
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dailyerrors.ChallengeNotFoundError{Date: date}
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge by date failed: %w", err)
	}
	return &challenge, nil
}

// GetChallengeByID: ID로 챌린지를 조회한다.
func (r *Repository) GetChallengeByID(ctx context.Context, challengeID int64) (*Challenge, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var challenge Challenge
	err := r.db.WithContext(ctx).First(&challenge, challengeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dailyerrors.ChallengeNotFoundError{ChallengeID: challengeID}
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge by id failed: %w", err)
	}
	return &challenge, nil
}

// GetFirstTier: 챌린지의 첫 번째 티어를 조회한다.
// 현재는 챌린지당 티어가 하나이므로 number 오름차순 첫 행이 플레이 대상이다.
func (r *Repository) GetFirstTier(ctx context.Context, challengeID int64) (*Tier, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var tier Tier
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("number ASC").
		First(&tier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dailyerrors.ChallengeNotFoundError{ChallengeID: challengeID}
	}
	if err != nil {
		return nil, fmt.Errorf("get first tier failed: %w", err)
	}
	return &tier, nil
}

// GetTierScreenshots: 티어의 스크린샷 바인딩을 포지션 오름차순으로 조회한다.
func (r *Repository) GetTierScreenshots(ctx context.Context, tierID int64) ([]TierScreenshot, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var bindings []TierScreenshot
	if err := r.db.WithContext(ctx).
		Where("tier_id = ?", tierID).
		Order("position ASC").
		Find(&bindings).Error; err != nil {
		return nil, fmt.Errorf("get tier screenshots failed: %w", err)
	}
	return bindings, nil
}

// GetScreenshot: 스크린샷 에셋을 조회한다.
func (r *Repository) GetScreenshot(ctx context.Context, screenshotID int64) (*Screenshot, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var shot Screenshot
	err := r.db.WithContext(ctx).First(&shot, screenshotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dailyerrors.ScreenshotNotFoundError{ScreenshotID: screenshotID}
	}
	if err != nil {
		return nil, fmt.Errorf("get screenshot failed: %w", err)
	}
	return &shot, nil
}

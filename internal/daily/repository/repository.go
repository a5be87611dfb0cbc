package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Repository: DB 접근을 위한 GORM 기반 리포지토리
// 메서드들은 도메인별 파일로 분리됨:
//   - challenge.go: 챌린지/티어/스크린샷 참조 데이터 조회
//   - session.go: 게임 세션 완료 기록
//   - guess.go: 추측 append-only 기록
//   - player_stats.go: 사용자 통계 upsert
type Repository struct {
	db *gorm.DB
}

// New: 새로운 Repository 인스턴스를 생성한다.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate: 자동으로 DB 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(
		&Challenge{},
		&Tier{},
		&Game{},
		&Screenshot{},
		&TierScreenshot{},
		&GameSession{},
		&TierSession{},
		&Guess{},
		&PlayerStats{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// GenerateSessionID: 새 세션의 외부 식별자를 생성한다.
func GenerateSessionID(userID string) string {
	userID = strings.TrimSpace(userID)

	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return userID + ":" + fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

package repository

import "time"

// Challenge: 날짜별 데일리 챌린지. 생성 후 불변이며 외부 스케줄링 잡이 만든다.
type Challenge struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Date      string    `gorm:"column:date;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Challenge) TableName() string { return "challenges" }

// Tier: 챌린지 내 서브 퍼즐. 현재 프로덕트는 챌린지당 1개("Daily Challenge")만 사용한다.
type Tier struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ChallengeID      int64     `gorm:"column:challenge_id;not null;uniqueIndex:idx_tiers_challenge_number,priority:1"`
	Number           int       `gorm:"column:number;not null;uniqueIndex:idx_tiers_challenge_number,priority:2"`
	Name             string    `gorm:"column:name;not null;default:''"`
	TimeLimitSeconds int       `gorm:"column:time_limit_seconds;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Tier) TableName() string { return "tiers" }

// Game: 정답 판정의 기준이 되는 정식 게임 식별자. (스크린샷 임포트 파이프라인이 채움)
type Game struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Game) TableName() string { return "games" }

// Screenshot: 게임 스크린샷 에셋. GameID가 해당 스크린샷의 정답 게임이다.
type Screenshot struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	GameID    int64     `gorm:"column:game_id;not null;index"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Screenshot) TableName() string { return "screenshots" }

// TierScreenshot: 티어 내 포지션과 스크린샷의 순서 바인딩.
// 포지션은 1부터 시작하는 빈틈 없는 시퀀스다.
type TierScreenshot struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TierID          int64     `gorm:"column:tier_id;not null;uniqueIndex:idx_tier_screenshots_tier_position,priority:1"`
	Position        int       `gorm:"column:position;not null;uniqueIndex:idx_tier_screenshots_tier_position,priority:2"`
	ScreenshotID    int64     `gorm:"column:screenshot_id;not null;index"`
	BonusMultiplier float64   `gorm:"column:bonus_multiplier;not null;default:1"`
	CreatedAt       time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (TierScreenshot) TableName() string { return "tier_screenshots" }

// GameSession: 한 플레이어의 챌린지 시도 기록.
// 유저당 챌린지 하나에 완료 세션은 최대 1개 (복합 유니크 인덱스).
type GameSession struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID        string     `gorm:"column:session_id;not null;uniqueIndex"`
	UserID           string     `gorm:"column:user_id;not null;uniqueIndex:idx_game_sessions_user_challenge,priority:1"`
	ChallengeID      int64      `gorm:"column:challenge_id;not null;uniqueIndex:idx_game_sessions_user_challenge,priority:2"`
	TotalScore       int64      `gorm:"column:total_score;not null;default:0"`
	Completed        bool       `gorm:"column:completed;not null;default:false;index"`
	CompletionReason string     `gorm:"column:completion_reason;not null;default:''"`
	StartedAt        time.Time  `gorm:"column:started_at;not null"`
	CompletedAt      *time.Time `gorm:"column:completed_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
}

func (GameSession) TableName() string { return "game_sessions" }

// TierSession: 게임 세션 내 한 티어의 라이브 플레이 기록
type TierSession struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID    string    `gorm:"column:session_id;not null;uniqueIndex:idx_tier_sessions_session_tier,priority:1"`
	TierID       int64     `gorm:"column:tier_id;not null;uniqueIndex:idx_tier_sessions_session_tier,priority:2"`
	WrongGuesses int       `gorm:"column:wrong_guesses;not null;default:0"`
	StartedAt    time.Time `gorm:"column:started_at;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (TierSession) TableName() string { return "tier_sessions" }

// Guess: 제출 1건의 불변 append-only 기록. 수정/삭제되지 않는 감사 이력이다.
// ElapsedMillis는 제출 순간 서버가 측정한 경과 시간이며 클라이언트 값은 저장하지 않는다.
type Guess struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID       string    `gorm:"column:session_id;not null;index"`
	TierID          int64     `gorm:"column:tier_id;not null"`
	ScreenshotID    int64     `gorm:"column:screenshot_id;not null"`
	Position        int       `gorm:"column:position;not null"`
	SubmittedGameID *int64    `gorm:"column:submitted_game_id"`
	GuessText       string    `gorm:"column:guess_text;not null;default:''"`
	Correct         bool      `gorm:"column:correct;not null"`
	ElapsedMillis   int64     `gorm:"column:elapsed_millis;not null"`
	AwardedPoints   int64     `gorm:"column:awarded_points;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Guess) TableName() string { return "guesses" }

// PlayerStats: 사용자별 집계 통계
type PlayerStats struct {
	UserID            string     `gorm:"column:user_id;primaryKey"`
	TotalAttempts     int        `gorm:"column:total_attempts;not null;default:0"`
	TotalAllCorrect   int        `gorm:"column:total_all_correct;not null;default:0"`
	TotalTimeExpired  int        `gorm:"column:total_time_expired;not null;default:0"`
	TotalForfeited    int        `gorm:"column:total_forfeited;not null;default:0"`
	TotalWrongGuesses int        `gorm:"column:total_wrong_guesses;not null;default:0"`
	TotalPoints       int64      `gorm:"column:total_points;not null;default:0"`
	BestScore         int64      `gorm:"column:best_score;not null;default:0"`
	BestScoreAt       *time.Time `gorm:"column:best_score_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;not null;autoUpdateTime"`
	Version           int64      `gorm:"column:version;not null;default:0"`
}

func (PlayerStats) TableName() string { return "player_stats" }

package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// CompletionReason: 세션이 종료된 이유
type CompletionReason string

const (
	// CompletionAllCorrect: 모든 포지션을 맞혀서 종료
	CompletionAllCorrect CompletionReason = "all_correct"
	// CompletionTimeExpired: 티어 제한 시간 초과로 종료
	CompletionTimeExpired CompletionReason = "time_expired"
	// CompletionForfeited: 플레이어가 명시적으로 포기하여 종료
	CompletionForfeited CompletionReason = "forfeited"
)

// ParseCompletionReason: 문자열을 CompletionReason으로 변환한다.
func ParseCompletionReason(input string) (CompletionReason, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	switch CompletionReason(lower) {
	case CompletionAllCorrect, CompletionTimeExpired, CompletionForfeited:
		return CompletionReason(lower), nil
	default:
		return "", fmt.Errorf("unknown completion reason: %q", input)
	}
}

// PositionStatus: 티어 내 포지션 하나의 진행 상태
// not_visited → {skipped, correct}, skipped → correct 전이만 허용되며 correct는 최종 상태다.
type PositionStatus string

const (
	// PositionNotVisited: 아직 스킵도 정답도 없는 포지션
	PositionNotVisited PositionStatus = "not_visited"
	PositionSkipped    PositionStatus = "skipped"
	PositionCorrect    PositionStatus = "correct"
)

// SessionState: 한 플레이어의 챌린지 진행 상태 전체를 담는 상태 객체.
// Redis에 JSON으로 직렬화되어 저장되며, 세션 락을 잡은 단일 작성자만 변경한다.
// 점수/경과 시간은 항상 서버 시계 기준으로 계산한다. (클라이언트 값 불신)
type SessionState struct {
	SessionID   string `json:"sessionId"`
	UserID      string `json:"userId"`
	ChallengeID int64  `json:"challengeId"`
	TierID      int64  `json:"tierId"`

	TimeLimitSeconds int `json:"timeLimitSeconds"`

	CurrentPosition int              `json:"currentPosition"`
	Positions       []PositionStatus `json:"positions"`

	TotalScore   int64 `json:"totalScore"`
	WrongGuesses int   `json:"wrongGuesses"`

	StartedAt     time.Time `json:"startedAt"`
	TierStartedAt time.Time `json:"tierStartedAt"`

	Completed        bool             `json:"completed"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
	CompletionReason CompletionReason `json:"completionReason,omitempty"`
}

// NewInitialState: 새로운 세션 상태를 초기화한다. 포지션은 1번부터 시작하며 전부 not_visited.
func NewInitialState(
	sessionID string,
	userID string,
	challengeID int64,
	tierID int64,
	positionCount int,
	timeLimitSeconds int,
	now time.Time,
) SessionState {
	positions := make([]PositionStatus, positionCount)
	for i := range positions {
		positions[i] = PositionNotVisited
	}
	return SessionState{
		SessionID:        sessionID,
		UserID:           userID,
		ChallengeID:      challengeID,
		TierID:           tierID,
		TimeLimitSeconds: timeLimitSeconds,
		CurrentPosition:  1,
		Positions:        positions,
		StartedAt:        now,
		TierStartedAt:    now,
	}
}

// PositionCount: 티어의 포지션 수를 반환한다.
func (s SessionState) PositionCount() int { return len(s.Positions) }

// ValidPosition: 포지션 번호가 티어 범위(1..N) 안인지 확인한다.
func (s SessionState) ValidPosition(position int) bool {
	return position >= 1 && position <= len(s.Positions)
}

// StatusAt: 포지션의 현재 상태를 반환한다. 범위 밖이면 not_visited.
func (s SessionState) StatusAt(position int) PositionStatus {
	if !s.ValidPosition(position) {
		return PositionNotVisited
	}
	return s.Positions[position-1]
}

// MarkSkipped: 포지션을 skipped로 전이한다. (Immutable)
// correct는 최종 상태이므로 되돌리지 않는다.
func (s SessionState) MarkSkipped(position int) SessionState {
	if !s.ValidPosition(position) || s.Positions[position-1] == PositionCorrect {
		return s
	}
	next := slices.Clone(s.Positions)
	next[position-1] = PositionSkipped
	return s.copyWith(func(st *SessionState) {
		st.Positions = next
	})
}

// MarkCorrect: 포지션을 correct로 전이하고 점수를 가산한다. (Immutable)
func (s SessionState) MarkCorrect(position int, awarded int64) SessionState {
	if !s.ValidPosition(position) {
		return s
	}
	next := slices.Clone(s.Positions)
	next[position-1] = PositionCorrect
	return s.copyWith(func(st *SessionState) {
		st.Positions = next
		st.TotalScore = s.TotalScore + awarded
	})
}

// ApplyPenalty: 오답 페널티를 적용한다. 총점은 0 미만으로 내려가지 않는다. (Immutable)
func (s SessionState) ApplyPenalty(penalty int64) SessionState {
	score := s.TotalScore - penalty
	if score < 0 {
		score = 0
	}
	return s.copyWith(func(st *SessionState) {
		st.TotalScore = score
		st.WrongGuesses = s.WrongGuesses + 1
	})
}

// MoveTo: 현재 포지션 포인터를 이동한다. (Immutable)
func (s SessionState) MoveTo(position int) SessionState {
	return s.copyWith(func(st *SessionState) {
		st.CurrentPosition = position
	})
}

// MarkCompleted: 세션을 종료 상태로 전이한다. (Immutable)
// completed는 최종 상태이며 이후 점수/포지션 변경은 허용되지 않는다.
func (s SessionState) MarkCompleted(reason CompletionReason, now time.Time) SessionState {
	completedAt := now
	return s.copyWith(func(st *SessionState) {
		st.Completed = true
		st.CompletedAt = &completedAt
		st.CompletionReason = reason
	})
}

// AllCorrect: 모든 포지션이 correct인지 확인한다.
func (s SessionState) AllCorrect() bool {
	for _, status := range s.Positions {
		if status != PositionCorrect {
			return false
		}
	}
	return len(s.Positions) > 0
}

// HasRemaining: correct가 아닌 포지션이 남아 있는지 확인한다.
func (s SessionState) HasRemaining() bool { return !s.AllCorrect() }

// NextOpenPosition: 스킵 시 이동할 다음 포지션을 결정한다.
// 현재보다 큰 번호의 not_visited를 우선하고, 없으면 앞쪽의 skipped로 되돌아간다.
// 둘 다 없으면 false를 반환한다. (티어 소진)
func (s SessionState) NextOpenPosition(after int) (int, bool) {
	for position := after + 1; position <= len(s.Positions); position++ {
		if s.Positions[position-1] == PositionNotVisited {
			return position, true
		}
	}
	for position := 1; position <= len(s.Positions); position++ {
		if position == after {
			continue
		}
		if status := s.Positions[position-1]; status == PositionSkipped || status == PositionNotVisited {
			return position, true
		}
	}
	return 0, false
}

// Elapsed: 티어 시작 이후 서버 기준 경과 시간을 반환한다.
func (s SessionState) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.TierStartedAt)
}

// TimeExpired: 서버 기준 경과 시간이 티어 제한 시간을 넘었는지 확인한다.
func (s SessionState) TimeExpired(now time.Time) bool {
	if s.TimeLimitSeconds <= 0 {
		return false
	}
	return s.Elapsed(now) >= time.Duration(s.TimeLimitSeconds)*time.Second
}

func (s SessionState) copyWith(mut func(*SessionState)) SessionState {
	next := s
	mut(&next)
	return next
}

// Snapshot: UI 렌더링용 세션 스냅샷 DTO
type Snapshot struct {
	SessionID        string           `json:"sessionId"`
	ChallengeID      int64            `json:"challengeId"`
	CurrentPosition  int              `json:"currentPosition"`
	PositionStates   []PositionStatus `json:"positionStates"`
	TotalScore       int64            `json:"totalScore"`
	WrongGuesses     int              `json:"wrongGuesses"`
	IsCompleted      bool             `json:"isCompleted"`
	CompletionReason CompletionReason `json:"completionReason,omitempty"`
	RemainingMillis  int64            `json:"remainingMillis"`
}

// ToSnapshot: 상태를 스냅샷 DTO로 변환한다. 남은 시간은 서버 시계 기준이다.
func (s SessionState) ToSnapshot(now time.Time) Snapshot {
	remaining := int64(0)
	if !s.Completed && s.TimeLimitSeconds > 0 {
		remainingDur := time.Duration(s.TimeLimitSeconds)*time.Second - s.Elapsed(now)
		if remainingDur > 0 {
			remaining = remainingDur.Milliseconds()
		}
	}
	return Snapshot{
		SessionID:        s.SessionID,
		ChallengeID:      s.ChallengeID,
		CurrentPosition:  s.CurrentPosition,
		PositionStates:   slices.Clone(s.Positions),
		TotalScore:       s.TotalScore,
		WrongGuesses:     s.WrongGuesses,
		IsCompleted:      s.Completed,
		CompletionReason: s.CompletionReason,
		RemainingMillis:  remaining,
	}
}

// GuessOutcome: 한 번의 제출에 대한 판정 결과
type GuessOutcome struct {
	Correct       bool             `json:"correct"`
	AwardedPoints int64            `json:"awardedPoints"`
	TotalScore    int64            `json:"totalScore"`
	Position      int              `json:"position"`
	Completed     bool             `json:"completed"`
	Reason        CompletionReason `json:"completionReason,omitempty"`
}

// CompletionRecord: 종료 시점에 한 번만 생성되는 불변 완료 기록.
// 리더보드/업적 서브시스템이 소비한다.
type CompletionRecord struct {
	SessionID   string           `json:"sessionId"`
	UserID      string           `json:"userId"`
	ChallengeID int64            `json:"challengeId"`
	TotalScore  int64            `json:"totalScore"`
	Reason      CompletionReason `json:"completionReason"`
	CompletedAt time.Time        `json:"completedAt"`
}

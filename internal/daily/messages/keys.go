// Package messages 는 게임 메시지 YAML의 키 상수를 정의한다.
package messages

// ChallengeNotFound: 챌린지/세션 조회 관련 메시지 키
const (
	ChallengeNotFound       = "challenge.not_found"
	SessionNotFound         = "session.not_found"
	SessionAlreadyCompleted = "session.already_completed"
	SessionForbidden        = "session.forbidden"
	SessionBusy             = "session.busy"
	SessionCompleted        = "session.completed"
)

// GuessCorrect: 추측 판정 관련 메시지 키
const (
	GuessCorrect       = "guess.correct"
	GuessWrong         = "guess.wrong"
	GuessAlreadySolved = "guess.already_solved"
)

// NavigateInvalidPosition: 이동 관련 메시지 키
const (
	NavigateInvalidPosition = "navigate.invalid_position"
)

// CompleteAllCorrect: 종료 사유별 안내 메시지 키
const (
	CompleteAllCorrect  = "complete.all_correct"
	CompleteTimeExpired = "complete.time_expired"
	CompleteForfeited   = "complete.forfeited"
)

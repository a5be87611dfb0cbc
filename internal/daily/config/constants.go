package config

// RedisKeyPrefix 는 Redis 키 상수 목록이다.
const (
	RedisKeyPrefix            = "shotdle"
	RedisKeySessionPrefix     = RedisKeyPrefix + ":session"
	RedisKeyUserSessionPrefix = RedisKeyPrefix + ":user-session"
	RedisKeyLockPrefix        = RedisKeyPrefix + ":lock"
)

// RedisSessionTTLSeconds 는 Redis TTL 상수 목록이다.
const (
	// RedisSessionTTLSeconds: 하루 단위 챌린지이므로 라이브 상태는 24시간 유지
	RedisSessionTTLSeconds = 24 * 60 * 60
	// RedisLockTTLSeconds: 세션 뮤테이션은 짧게 끝나므로 락 TTL은 백스톱 용도
	RedisLockTTLSeconds = 10
)

// DefaultBasePoints 는 기본 점수 파라미터 상수 목록이다.
// 정확한 프로덕트 수치는 환경 변수로 오버라이드한다. (SCORE_* 키)
const (
	DefaultBasePoints        = 1000
	DefaultDecayPerSecond    = 2
	DefaultWrongGuessPenalty = 100
)

// DefaultCompletionStreamKey 는 완료 이벤트 스트림 상수 목록이다.
const (
	DefaultCompletionStreamKey    = "shotdle:events:completion"
	DefaultCompletionStreamMaxLen = 10000
)

// ChallengeDateLayout 는 챌린지 날짜 포맷 상수다.
const (
	ChallengeDateLayout = "2006-01-02"
)

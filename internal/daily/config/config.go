package config

import (
	"fmt"

	commonconfig "github.com/park285/shotdle-server-go/internal/common/config"
)

// ServerConfig: HTTP 서버 설정 (포트 등) alias
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 튜닝 설정 (Timeouts, Limits 등) alias
type ServerTuningConfig = commonconfig.ServerTuningConfig

// RedisConfig: Redis 연결 설정 (라이브 세션 상태용) alias
type RedisConfig = commonconfig.RedisConfig

// LogConfig: 로깅 설정 (파일 로테이션 등) alias
type LogConfig = commonconfig.LogConfig

// PostgresConfig: PostgreSQL 데이터베이스 설정
type PostgresConfig struct {
	Host       string
	Port       int
	SocketPath string // UDS 경로 (비어있으면 TCP 사용)
	Name       string
	User       string
	Password   string
	SSLMode    string
}

// ScoringConfig: 점수 카운트다운 파라미터.
// 클라이언트 표시는 근사치일 뿐이며 실제 점수는 항상 이 파라미터와 서버 시계로 재계산된다.
type ScoringConfig struct {
	BasePoints        int64 // 티어 시작 시점의 만점
	DecayPerSecond    int64 // 초당 감소량
	WrongGuessPenalty int64 // 오답 1회당 고정 페널티 (총점에서 차감, 0 미만 불가)
}

// EventsConfig: 완료 이벤트 스트림 발행 설정
type EventsConfig struct {
	CompletionStreamKey string
	StreamMaxLen        int64
}

// StatsConfig: 통계 기록 관련 설정
type StatsConfig struct {
	WorkerCount int
	QueueSize   int
}

// Config: 전체 애플리케이션 설정 구조체
type Config struct {
	Server       ServerConfig
	ServerTuning ServerTuningConfig
	Redis        RedisConfig
	Postgres     PostgresConfig
	Scoring      ScoringConfig
	Events       EventsConfig
	Stats        StatsConfig
	Log          LogConfig
}

// LoadFromEnv: 환경 변수로부터 전체 애플리케이션 설정을 로드합니다.
func LoadFromEnv() (*Config, error) {
	server, err := readServerConfig()
	if err != nil {
		return nil, err
	}
	serverTuning, err := readServerTuningConfig()
	if err != nil {
		return nil, err
	}
	redisCfg, err := readRedisConfig()
	if err != nil {
		return nil, err
	}
	postgres, err := readPostgresConfig()
	if err != nil {
		return nil, err
	}
	scoring, err := readScoringConfig()
	if err != nil {
		return nil, err
	}
	events, err := readEventsConfig()
	if err != nil {
		return nil, err
	}
	stats, err := readStatsConfig()
	if err != nil {
		return nil, err
	}
	log, err := readLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Redis:        redisCfg,
		Postgres:     postgres,
		Scoring:      scoring,
		Events:       events,
		Stats:        stats,
		Log:          log,
	}, nil
}

func readServerConfig() (ServerConfig, error) {
	cfg, err := commonconfig.ReadServerConfigFromEnv(40310)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read server config failed: %w", err)
	}
	return cfg, nil
}

func readServerTuningConfig() (ServerTuningConfig, error) {
	cfg, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read server tuning config failed: %w", err)
	}
	return cfg, nil
}

func readRedisConfig() (RedisConfig, error) {
	cfg, err := commonconfig.ReadRedisConfigFromEnv(
		[]string{"CACHE_HOST", "REDIS_HOST"},
		[]string{"CACHE_PORT", "REDIS_PORT"},
		[]string{"CACHE_PASSWORD", "REDIS_PASSWORD"},
		[]string{"CACHE_SOCKET_PATH", "REDIS_SOCKET_PATH"},
		"localhost",
		6379,
		"",
	)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis config failed: %w", err)
	}
	return cfg, nil
}

func readPostgresConfig() (PostgresConfig, error) {
	port, err := commonconfig.IntFromEnv("DB_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read DB_PORT failed: %w", err)
	}

	return PostgresConfig{
		Host:       commonconfig.StringFromEnv("DB_HOST", "localhost"),
		Port:       port,
		SocketPath: commonconfig.StringFromEnv("DB_SOCKET_PATH", ""),
		Name:       commonconfig.StringFromEnv("DB_NAME", "shotdle"),
		User:       commonconfig.StringFromEnv("DB_USER", "shotdle_app"),
		Password:   commonconfig.StringFromEnv("DB_PASSWORD", ""),
		SSLMode:    commonconfig.StringFromEnv("DB_SSLMODE", "disable"),
	}, nil
}

func readScoringConfig() (ScoringConfig, error) {
	basePoints, err := commonconfig.Int64FromEnv("SCORE_BASE_POINTS", DefaultBasePoints)
	if err != nil {
		return ScoringConfig{}, fmt.Errorf("read SCORE_BASE_POINTS failed: %w", err)
	}
	decay, err := commonconfig.Int64FromEnv("SCORE_DECAY_PER_SECOND", DefaultDecayPerSecond)
	if err != nil {
		return ScoringConfig{}, fmt.Errorf("read SCORE_DECAY_PER_SECOND failed: %w", err)
	}
	penalty, err := commonconfig.Int64FromEnv("SCORE_WRONG_GUESS_PENALTY", DefaultWrongGuessPenalty)
	if err != nil {
		return ScoringConfig{}, fmt.Errorf("read SCORE_WRONG_GUESS_PENALTY failed: %w", err)
	}
	if basePoints <= 0 || decay < 0 || penalty < 0 {
		return ScoringConfig{}, fmt.Errorf(
			"invalid scoring config base=%d decay=%d penalty=%d", basePoints, decay, penalty)
	}

	return ScoringConfig{
		BasePoints:        basePoints,
		DecayPerSecond:    decay,
		WrongGuessPenalty: penalty,
	}, nil
}

func readEventsConfig() (EventsConfig, error) {
	maxLen, err := commonconfig.Int64FromEnv("EVENTS_STREAM_MAX_LEN", DefaultCompletionStreamMaxLen)
	if err != nil {
		return EventsConfig{}, fmt.Errorf("read EVENTS_STREAM_MAX_LEN failed: %w", err)
	}

	return EventsConfig{
		CompletionStreamKey: commonconfig.StringFromEnv("EVENTS_COMPLETION_STREAM_KEY", DefaultCompletionStreamKey),
		StreamMaxLen:        maxLen,
	}, nil
}

func readStatsConfig() (StatsConfig, error) {
	workerCount, err := commonconfig.IntFromEnv("STATS_WORKER_COUNT", 2)
	if err != nil {
		return StatsConfig{}, fmt.Errorf("read STATS_WORKER_COUNT failed: %w", err)
	}
	queueSize, err := commonconfig.IntFromEnv("STATS_QUEUE_SIZE", 100)
	if err != nil {
		return StatsConfig{}, fmt.Errorf("read STATS_QUEUE_SIZE failed: %w", err)
	}

	return StatsConfig{
		WorkerCount: workerCount,
		QueueSize:   queueSize,
	}, nil
}

func readLogConfig() (LogConfig, error) {
	cfg, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return LogConfig{}, fmt.Errorf("read log config failed: %w", err)
	}
	return cfg, nil
}

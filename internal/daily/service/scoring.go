package service

import (
	"math"
	"time"

	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
)

// CountdownScore: 티어 시작 이후 경과 시간으로 현재 카운트다운 점수를 계산한다.
// 점수는 basePoints에서 초당 decayPerSecond씩 밀리초 단위로 선형 감소하며 0 밑으로 내려가지 않는다.
// 경과 시간은 항상 서버 시계로 측정한 값이어야 한다.
func CountdownScore(cfg dconfig.ScoringConfig, elapsed time.Duration) int64 {
	if elapsed < 0 {
		elapsed = 0
	}
	score := cfg.BasePoints - cfg.DecayPerSecond*elapsed.Milliseconds()/1000
	if score < 0 {
		return 0
	}
	return score
}

// AwardedPoints: 정답 1건에 부여되는 점수를 계산한다.
// 카운트다운 점수에 포지션별 보너스 배율을 곱하고 내림한다.
func AwardedPoints(cfg dconfig.ScoringConfig, elapsed time.Duration, bonusMultiplier float64) int64 {
	base := CountdownScore(cfg, elapsed)
	if bonusMultiplier <= 0 {
		bonusMultiplier = 1
	}
	return int64(math.Floor(float64(base) * bonusMultiplier))
}

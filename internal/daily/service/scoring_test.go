package service

import (
	"testing"
	"time"

	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
)

func testScoringConfig() dconfig.ScoringConfig {
	return dconfig.ScoringConfig{
		BasePoints:        1000,
		DecayPerSecond:    2,
		WrongGuessPenalty: 100,
	}
}

func TestCountdownScore_LinearDecay(t *testing.T) {
	cfg := testScoringConfig()

	cases := []struct {
		elapsed time.Duration
		want    int64
	}{
		{0, 1000},
		{5 * time.Second, 990},
		{5500 * time.Millisecond, 989},
		{100 * time.Second, 800},
		{500 * time.Second, 0},
		{10 * time.Hour, 0},
		{-3 * time.Second, 1000},
	}
	for _, tc := range cases {
		if got := CountdownScore(cfg, tc.elapsed); got != tc.want {
			t.Errorf("elapsed=%v: expected %d, got %d", tc.elapsed, tc.want, got)
		}
	}
}

func TestAwardedPoints_BonusMultiplier(t *testing.T) {
	cfg := testScoringConfig()

	if got := AwardedPoints(cfg, 5*time.Second, 1.0); got != 990 {
		t.Errorf("expected 990, got %d", got)
	}
	if got := AwardedPoints(cfg, 5*time.Second, 1.5); got != 1485 {
		t.Errorf("expected 1485, got %d", got)
	}
	// 배율 결과는 내림 처리된다.
	if got := AwardedPoints(cfg, 5500*time.Millisecond, 1.5); got != 1483 {
		t.Errorf("expected 1483, got %d", got)
	}
	// 0 이하 배율은 1로 취급한다.
	if got := AwardedPoints(cfg, 5*time.Second, 0); got != 990 {
		t.Errorf("expected 990 with zero multiplier, got %d", got)
	}
}

func TestNormalizeGuessText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  half-life 2 ", "half-life 2"},
		{"ＰＯＲＴＡＬ", "PORTAL"},
		{"\tCeleste\n", "Celeste"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeGuessText(tc.in); got != tc.want {
			t.Errorf("normalizeGuessText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

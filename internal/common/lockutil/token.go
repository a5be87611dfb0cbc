package lockutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewToken: 락 식별을 위한 임의 토큰을 생성합니다.
func NewToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("rand read failed: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// TTLMillisFromSeconds: TTL 초를 밀리초로 변환합니다.
func TTLMillisFromSeconds(seconds int64) int64 {
	return seconds * 1000
}

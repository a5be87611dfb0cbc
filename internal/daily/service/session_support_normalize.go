package service

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeGuessText: 감사 이력에 저장할 추측 텍스트를 정규화한다.
// NFKC로 전각/호환 문자를 접고 앞뒤 공백을 제거한다.
// 정오 판정에는 사용되지 않는다.
func normalizeGuessText(text string) string {
	return strings.TrimSpace(norm.NFKC.String(text))
}

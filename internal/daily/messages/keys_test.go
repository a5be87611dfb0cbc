package messages

import (
	"testing"

	"github.com/park285/shotdle-server-go/internal/common/messageprovider"
	dassets "github.com/park285/shotdle-server-go/internal/daily/assets"
)

// 모든 키 상수가 임베드된 YAML 카탈로그에 실제로 존재하는지 확인한다.
func TestAllKeysPresentInCatalog(t *testing.T) {
	provider, err := messageprovider.NewFromYAMLAtPath(dassets.GameMessagesYAML, "shotdle")
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	keys := []string{
		ChallengeNotFound,
		SessionNotFound,
		SessionAlreadyCompleted,
		SessionForbidden,
		SessionBusy,
		SessionCompleted,
		GuessCorrect,
		GuessWrong,
		GuessAlreadySolved,
		NavigateInvalidPosition,
		CompleteAllCorrect,
		CompleteTimeExpired,
		CompleteForfeited,
	}
	for _, key := range keys {
		if got := provider.Get(key); got == "" || got == key {
			t.Errorf("key %q missing from catalog (got %q)", key, got)
		}
	}
}

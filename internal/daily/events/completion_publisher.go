// Package events 는 세션 완료 이벤트를 Redis 스트림으로 발행한다.
// 리더보드/업적 등 다운스트림 소비자는 이 스트림만 바라본다.
package events

import (
	"context"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/shotdle-server-go/internal/common/mq"
	"github.com/park285/shotdle-server-go/internal/common/telemetry"
	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
)

// CompletionPublisher: 완료 기록을 스트림 메시지로 변환하여 발행하는 컴포넌트
type CompletionPublisher struct {
	publisher *mq.StreamPublisher
	logger    *slog.Logger
}

// NewCompletionPublisher: 새로운 CompletionPublisher 인스턴스를 생성한다.
func NewCompletionPublisher(client valkey.Client, logger *slog.Logger, cfg dconfig.EventsConfig) *CompletionPublisher {
	return &CompletionPublisher{
		publisher: mq.NewStreamPublisher(client, logger, mq.StreamPublisherConfig{
			Stream: cfg.CompletionStreamKey,
			MaxLen: cfg.StreamMaxLen,
		}),
		logger: logger,
	}
}

// Publish: 완료 기록 1건을 발행한다.
// 트레이스 컨텍스트를 함께 실어 소비자 쪽에서 전파를 이어갈 수 있게 한다.
func (p *CompletionPublisher) Publish(ctx context.Context, record dmodel.CompletionRecord) error {
	if p == nil || p.publisher == nil {
		return nil
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	values := map[string]any{
		"type":       "session_completed",
		"session_id": record.SessionID,
		"user_id":    record.UserID,
		"reason":     string(record.Reason),
		"payload":    string(payload),
	}

	carrier := telemetry.MapCarrier{}
	telemetry.InjectContext(ctx, carrier)
	for k, v := range carrier {
		values["otel_"+k] = v
	}

	if _, err := p.publisher.Publish(ctx, values); err != nil {
		return err
	}

	p.logger.Debug("completion_event_published", "session_id", record.SessionID, "reason", record.Reason)
	return nil
}

package valkeyx

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"
)

// SetStringEX: 문자열 값을 지정된 TTL과 함께 저장한다. (SET key value EX)
// ttl이 0 이하이면 만료 없이 저장한다.
func SetStringEX(ctx context.Context, client valkey.Client, key, value string, ttl time.Duration) error {
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = client.B().Set().Key(key).Value(value).Ex(ttl).Build()
	} else {
		cmd = client.B().Set().Key(key).Value(value).Build()
	}
	return client.Do(ctx, cmd).Error()
}

// GetBytes: 키에 저장된 값을 바이트 슬라이스로 조회한다.
// 키가 존재하지 않으면 (nil, false, nil)을 반환한다.
func GetBytes(ctx context.Context, client valkey.Client, key string) ([]byte, bool, error) {
	resp := client.Do(ctx, client.B().Get().Key(key).Build())
	if err := resp.Error(); err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	raw, err := resp.AsBytes()
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// DeleteKeys: 주어진 키들을 삭제한다. 존재하지 않는 키는 무시된다.
func DeleteKeys(ctx context.Context, client valkey.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return client.Do(ctx, client.B().Del().Key(keys...).Build()).Error()
}

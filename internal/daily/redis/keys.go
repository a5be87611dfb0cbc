// Package redis 는 데일리 챌린지의 Redis/Valkey 라이브 상태 저장소와 락을 정의한다.
package redis

import (
	"strconv"

	"github.com/park285/shotdle-server-go/internal/common/valkeyx"
	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
)

// sessionKey 는 세션 라이브 상태 저장용 키를 생성한다.
// 형식: shotdle:session:{sessionID}
func sessionKey(sessionID string) string {
	return valkeyx.BuildKey(dconfig.RedisKeySessionPrefix, sessionID)
}

// userSessionKey 는 유저별 활성 세션 인덱스 키를 생성한다.
// 형식: shotdle:user-session:{userID}:{challengeID}
func userSessionKey(userID string, challengeID int64) string {
	return valkeyx.BuildKey2(dconfig.RedisKeyUserSessionPrefix, userID, strconv.FormatInt(challengeID, 10))
}

// lockKey 는 세션 쓰기 락 키를 생성한다.
// 형식: shotdle:lock:{sessionID}
func lockKey(sessionID string) string {
	return valkeyx.BuildKey(dconfig.RedisKeyLockPrefix, sessionID)
}

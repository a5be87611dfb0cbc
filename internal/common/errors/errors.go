// Package errors: 게임 서비스 전체에서 공용으로 사용되는 에러 타입들을 정의한다.
// 도메인 간 공유되는 인프라스트럭처 에러 타입을 포함한다.
package errors

import "fmt"

// RedisError: Redis 작업을 수행하는 도중 발생한 에러
type RedisError struct {
	Operation string
	Err       error
}

func (e RedisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("redis error operation=%s", e.Operation)
	}
	return fmt.Sprintf("redis error operation=%s: %v", e.Operation, e.Err)
}

func (e RedisError) Unwrap() error { return e.Err }

// DatabaseError: 데이터베이스(PostgreSQL 등) 작업을 수행하는 도중 발생한 에러
type DatabaseError struct {
	Operation string
	Err       error
}

func (e DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("db error operation=%s", e.Operation)
	}
	return fmt.Sprintf("db error operation=%s: %v", e.Operation, e.Err)
}

func (e DatabaseError) Unwrap() error { return e.Err }

// LockError: 분산 락 획득 실패 등 락 관련 처리 중 발생하는 에러
type LockError struct {
	SessionID   string
	HolderName  *string
	Description string
}

func (e LockError) Error() string {
	msg := e.Description
	if msg == "" {
		msg = "failed to acquire lock"
	}
	if e.SessionID != "" {
		msg = fmt.Sprintf("%s session=%s", msg, e.SessionID)
	}
	if e.HolderName != nil && *e.HolderName != "" {
		msg = fmt.Sprintf("%s holder=%s", msg, *e.HolderName)
	}
	return msg
}

// Package errors: 데일리 챌린지 게임에 특화된 에러 타입들을 정의한다.
// 공통 에러 타입(RedisError, LockError 등)은 common/errors 패키지를 직접 사용한다.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError: 요청 파라미터가 형식에 맞지 않을 때 발생하는 에러
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid request field=%s reason=%s", e.Field, e.Reason)
}

// ChallengeNotFoundError: 챌린지(또는 그 티어)를 찾을 수 없을 때 발생하는 에러
type ChallengeNotFoundError struct {
	ChallengeID int64
	Date        string
}

func (e ChallengeNotFoundError) Error() string {
	if e.Date != "" {
		return fmt.Sprintf("challenge not found date=%s", e.Date)
	}
	return fmt.Sprintf("challenge not found challengeId=%d", e.ChallengeID)
}

// SessionNotFoundError: 게임 세션을 찾을 수 없을 때 발생하는 에러
type SessionNotFoundError struct {
	SessionID string
}

func (e SessionNotFoundError) Error() string {
	if e.SessionID == "" {
		return "session not found"
	}
	return fmt.Sprintf("session not found sessionId=%s", e.SessionID)
}

// ForbiddenError: 요청자가 세션 소유자가 아닐 때 발생하는 에러
type ForbiddenError struct {
	SessionID string
	UserID    string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("session ownership mismatch sessionId=%s userId=%s", e.SessionID, e.UserID)
}

// InvalidPositionError: 티어 범위 밖이거나 현재 포인터와 일치하지 않는 포지션 제출 시 발생하는 에러
type InvalidPositionError struct {
	Position int
	Current  int
	Max      int
}

func (e InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position position=%d current=%d max=%d", e.Position, e.Current, e.Max)
}

// InvalidNavigationError: 존재하지 않는 포지션으로의 이동 요청 시 발생하는 에러
type InvalidNavigationError struct {
	Position int
	Max      int
}

func (e InvalidNavigationError) Error() string {
	return fmt.Sprintf("invalid navigation target position=%d max=%d", e.Position, e.Max)
}

// AlreadySolvedError: 이미 correct인 포지션에 대한 중복 제출 시 발생하는 에러
type AlreadySolvedError struct {
	Position int
}

func (e AlreadySolvedError) Error() string {
	return fmt.Sprintf("position already solved position=%d", e.Position)
}

// SessionCompletedError: 종료된 세션에 대한 뮤테이션 시도 시 발생하는 에러
type SessionCompletedError struct {
	SessionID string
	Reason    string
}

func (e SessionCompletedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("session already completed sessionId=%s", e.SessionID)
	}
	return fmt.Sprintf("session already completed sessionId=%s reason=%s", e.SessionID, e.Reason)
}

// AlreadyCompletedError: 이미 완료한 챌린지에 대한 재시작 시도 시 발생하는 에러
type AlreadyCompletedError struct {
	ChallengeID int64
	UserID      string
}

func (e AlreadyCompletedError) Error() string {
	return fmt.Sprintf("challenge already completed challengeId=%d userId=%s", e.ChallengeID, e.UserID)
}

// ScreenshotNotFoundError: 포지션에 바인딩된 스크린샷을 찾을 수 없을 때 발생하는 에러
type ScreenshotNotFoundError struct {
	ScreenshotID int64
	Position     int
}

func (e ScreenshotNotFoundError) Error() string {
	return fmt.Sprintf("screenshot not found screenshotId=%d position=%d", e.ScreenshotID, e.Position)
}

// expectedPlayerBehaviorTypes: 플레이어의 정상적인 패턴 내 실수로 간주되는 에러 타입들.
// 로그 레벨을 낮추고 4xx 응답으로 매핑하는 용도로 사용한다.
var expectedPlayerBehaviorTypes = []func() any{
	func() any { return new(ValidationError) },
	func() any { return new(InvalidPositionError) },
	func() any { return new(InvalidNavigationError) },
	func() any { return new(AlreadySolvedError) },
	func() any { return new(SessionCompletedError) },
	func() any { return new(AlreadyCompletedError) },
	func() any { return new(SessionNotFoundError) },
}

// IsExpectedPlayerBehavior: 에러가 플레이어의 정상적인(예상된) 패턴 내의 실수인지 확인한다.
func IsExpectedPlayerBehavior(err error) bool {
	if err == nil {
		return false
	}
	for _, targetFn := range expectedPlayerBehaviorTypes {
		if errors.As(err, targetFn()) {
			return true
		}
	}
	return false
}

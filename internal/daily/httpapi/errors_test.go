package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	cerrors "github.com/park285/shotdle-server-go/internal/common/errors"
	derrors "github.com/park285/shotdle-server-go/internal/daily/errors"
)

func TestClassifyServiceError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", derrors.ValidationError{Field: "date"}, http.StatusBadRequest},
		{"invalid_position", derrors.InvalidPositionError{Position: 9}, http.StatusBadRequest},
		{"invalid_navigation", derrors.InvalidNavigationError{Position: 9}, http.StatusBadRequest},
		{"challenge_not_found", derrors.ChallengeNotFoundError{Date: "2026-03-01"}, http.StatusNotFound},
		{"session_not_found", derrors.SessionNotFoundError{SessionID: "s"}, http.StatusNotFound},
		{"screenshot_not_found", derrors.ScreenshotNotFoundError{Position: 1}, http.StatusNotFound},
		{"forbidden", derrors.ForbiddenError{SessionID: "s"}, http.StatusForbidden},
		{"already_solved", derrors.AlreadySolvedError{Position: 1}, http.StatusConflict},
		{"already_completed", derrors.AlreadyCompletedError{ChallengeID: 1}, http.StatusConflict},
		{"session_completed", derrors.SessionCompletedError{SessionID: "s"}, http.StatusGone},
		{"lock_busy", cerrors.LockError{SessionID: "s"}, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := classifyServiceError(tc.err)
			if status != tc.want {
				t.Errorf("expected %d, got %d", tc.want, status)
			}
		})
	}
}

func TestClassifyServiceError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("start failed: %w", derrors.AlreadyCompletedError{ChallengeID: 1})
	status, _ := classifyServiceError(wrapped)
	if status != http.StatusConflict {
		t.Errorf("wrapped errors must classify the same, got %d", status)
	}
}

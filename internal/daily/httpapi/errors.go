package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	cerrors "github.com/park285/shotdle-server-go/internal/common/errors"
	"github.com/park285/shotdle-server-go/internal/common/messageprovider"
	derrors "github.com/park285/shotdle-server-go/internal/daily/errors"
	dmessages "github.com/park285/shotdle-server-go/internal/daily/messages"
)

// respondServiceError: 서비스 에러를 HTTP 상태 코드와 사용자 메시지로 매핑한다.
// 플레이어의 예상된 실수는 Info, 나머지는 Error 로 기록한다.
func respondServiceError(
	w http.ResponseWriter,
	err error,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
	event string,
	logArgs ...any,
) {
	status, messageKey := classifyServiceError(err)

	args := append(logArgs, "status", status, "err", err)
	if derrors.IsExpectedPlayerBehavior(err) {
		logger.Info(event, args...)
	} else {
		logger.Error(event, args...)
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	if messageKey != "" && msgProvider != nil {
		message = msgProvider.Get(messageKey)
	}
	respondError(w, status, message)
}

func classifyServiceError(err error) (int, string) {
	var validation derrors.ValidationError
	var invalidPosition derrors.InvalidPositionError
	var invalidNavigation derrors.InvalidNavigationError
	var challengeNotFound derrors.ChallengeNotFoundError
	var sessionNotFound derrors.SessionNotFoundError
	var screenshotNotFound derrors.ScreenshotNotFoundError
	var forbidden derrors.ForbiddenError
	var alreadySolved derrors.AlreadySolvedError
	var alreadyCompleted derrors.AlreadyCompletedError
	var sessionCompleted derrors.SessionCompletedError
	var lockErr cerrors.LockError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ""
	case errors.As(err, &invalidPosition):
		return http.StatusBadRequest, dmessages.NavigateInvalidPosition
	case errors.As(err, &invalidNavigation):
		return http.StatusBadRequest, dmessages.NavigateInvalidPosition
	case errors.As(err, &challengeNotFound):
		return http.StatusNotFound, dmessages.ChallengeNotFound
	case errors.As(err, &sessionNotFound):
		return http.StatusNotFound, dmessages.SessionNotFound
	case errors.As(err, &screenshotNotFound):
		return http.StatusNotFound, dmessages.SessionNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden, dmessages.SessionForbidden
	case errors.As(err, &alreadySolved):
		return http.StatusConflict, dmessages.GuessAlreadySolved
	case errors.As(err, &alreadyCompleted):
		return http.StatusConflict, dmessages.SessionAlreadyCompleted
	case errors.As(err, &sessionCompleted):
		return http.StatusGone, dmessages.SessionCompleted
	case errors.As(err, &lockErr):
		return http.StatusTooManyRequests, dmessages.SessionBusy
	default:
		return http.StatusInternalServerError, ""
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

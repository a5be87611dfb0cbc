// Package httpapi 는 데일리 챌린지 HTTP API 라우트와 핸들러를 정의한다.
package httpapi

import (
	"log/slog"
	"net/http"
	"runtime"
	"strings"

	"github.com/park285/shotdle-server-go/internal/common/httputil"
	"github.com/park285/shotdle-server-go/internal/common/messageprovider"
	dsvc "github.com/park285/shotdle-server-go/internal/daily/service"
)

const (
	headerUserID = "X-User-Id"
	maxBodyBytes = 1 << 20
)

// Register HTTP API 라우트 등록.
func Register(
	mux *http.ServeMux,
	sessionService *dsvc.SessionService,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	// GET /health - 헬스체크
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":     "ok",
			"goroutines": runtime.NumGoroutine(),
		})
	})

	// POST /api/daily/sessions - 챌린지 시작/재개
	mux.HandleFunc("POST /api/daily/sessions", func(w http.ResponseWriter, r *http.Request) {
		handleStart(w, r, sessionService, msgProvider, logger)
	})

	// GET /api/daily/sessions/{sessionId} - 세션 스냅샷 조회
	mux.HandleFunc("GET /api/daily/sessions/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		handleSnapshot(w, r, sessionService, msgProvider, logger)
	})

	// GET /api/daily/sessions/{sessionId}/screenshot - 현재 스크린샷 조회
	mux.HandleFunc("GET /api/daily/sessions/{sessionId}/screenshot", func(w http.ResponseWriter, r *http.Request) {
		handleScreenshot(w, r, sessionService, msgProvider, logger)
	})

	// POST /api/daily/sessions/{sessionId}/guesses - 추측 제출
	mux.HandleFunc("POST /api/daily/sessions/{sessionId}/guesses", func(w http.ResponseWriter, r *http.Request) {
		handleGuess(w, r, sessionService, msgProvider, logger)
	})

	// POST /api/daily/sessions/{sessionId}/navigate - 포지션 이동
	mux.HandleFunc("POST /api/daily/sessions/{sessionId}/navigate", func(w http.ResponseWriter, r *http.Request) {
		handleNavigate(w, r, sessionService, msgProvider, logger)
	})

	// POST /api/daily/sessions/{sessionId}/skip - 현재 포지션 스킵
	mux.HandleFunc("POST /api/daily/sessions/{sessionId}/skip", func(w http.ResponseWriter, r *http.Request) {
		handleSkip(w, r, sessionService, msgProvider, logger)
	})

	// POST /api/daily/sessions/{sessionId}/forfeit - 포기
	mux.HandleFunc("POST /api/daily/sessions/{sessionId}/forfeit", func(w http.ResponseWriter, r *http.Request) {
		handleForfeit(w, r, sessionService, msgProvider, logger)
	})

	// GET /api/daily/stats/users/{userId} - 사용자 통계
	mux.HandleFunc("GET /api/daily/stats/users/{userId}", func(w http.ResponseWriter, r *http.Request) {
		handleUserStats(w, r, sessionService, logger)
	})

	logger.Info("daily_http_api_registered")
}

func resolveUserID(r *http.Request) string {
	userID := strings.TrimSpace(r.Header.Get(headerUserID))
	if userID != "" {
		return userID
	}
	remoteAddr := getRemoteAddr(r)
	if remoteAddr != "" {
		return remoteAddr
	}
	return "unknown"
}

func getRemoteAddr(r *http.Request) string {
	// X-Forwarded-For 헤더 확인 (프록시 뒤에서 실행 시)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	// X-Real-IP 헤더 확인
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	// RemoteAddr에서 IP 추출
	if r.RemoteAddr != "" {
		addr := r.RemoteAddr
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	_ = httputil.WriteJSON(w, status, data)
}

package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/park285/shotdle-server-go/internal/common/httputil"
	"github.com/park285/shotdle-server-go/internal/common/messageprovider"
	dsvc "github.com/park285/shotdle-server-go/internal/daily/service"
)

type (
	// SessionStartRequest: 챌린지 시작 요청 DTO. date가 없으면 오늘 챌린지.
	SessionStartRequest struct {
		Date *string `json:"date,omitempty"`
	}

	// GuessRequest: 추측 제출 요청 DTO
	GuessRequest struct {
		Position int    `json:"position"`
		GameID   *int64 `json:"gameId,omitempty"`
		Guess    string `json:"guess,omitempty"`
	}

	// NavigateRequest: 포지션 이동 요청 DTO
	NavigateRequest struct {
		Position int `json:"position"`
	}
)

func handleStart(
	w http.ResponseWriter,
	r *http.Request,
	sessionService *dsvc.SessionService,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	userID := resolveUserID(r)

	var req SessionStartRequest
	if r.ContentLength > 0 {
		if err := httputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
			logger.Debug("START_PARSE_FAILED", "err", err)
		}
	}

	date := ""
	if req.Date != nil {
		date = strings.TrimSpace(*req.Date)
	}

	start := time.Now()
	snapshot, err := sessionService.StartChallenge(r.Context(), userID, date)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		respondServiceError(w, err, msgProvider, logger, "START_FAILED", "userId", userID, "duration", duration)
		return
	}

	logger.Info("START_SUCCESS", "userId", userID, "sessionId", snapshot.SessionID, "duration", duration)
	respondJSON(w, http.StatusOK, snapshot)
}

func handleSnapshot(
	w http.ResponseWriter,
	r *http.Request,
	sessionService *dsvc.SessionService,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	sessionID := r.PathValue("sessionId")
	userID := resolveUserID(r)

	snapshot, err := sessionService.GetSnapshot(r.Context(), sessionID, userID)
	if err != nil {
		respondServiceError(w, err, msgProvider, logger, "SNAPSHOT_FAILED", "sessionId", sessionID)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func handleScreenshot(
	w http.ResponseWriter,
	r *http.Request,
	sessionService *dsvc.SessionService,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	sessionID := r.PathValue("sessionId")
	userID := resolveUserID(r)

	// position 쿼리 파라미터가 없으면 현재 포인터의 포지션을 조회한다.
	position := 0
	if raw := r.URL.Query().Get("position"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "invalid position")
			return
		}
		position = parsed
	}

	view, err := sessionService.GetCurrentScreenshot(r.Context(), sessionID, position, userID)
	if err != nil {
		respondServiceError(w, err, msgProvider, logger, "SCREENSHOT_FAILED", "sessionId", sessionID, "position", position)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func handleGuess(
	w http.ResponseWriter,
	r *http.Request,
	sessionService *dsvc.SessionService,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	sessionID := r.PathValue("sessionId")
	userID := resolveUserID(r)

	var req GuessRequest
	if err := httputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		logger.Debug("GUESS_PARSE_FAILED", "sessionId", sessionID, "err", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	outcome, err := sessionService.SubmitGuess(r.Context(), dsvc.GuessParams{
		SessionID: sessionID,
		UserID:    userID,
		Position:  req.Position,
		GameID:    req.GameID,
		GuessText: req.Guess,
	})
	duration := time.Since(start).Milliseconds()

	if err != nil {
		respondServiceError(w, err, msgProvider, logger, "GUESS_FAILED", "sessionId", sessionID, "position", req.Position, "duration", duration)
		return
	}

	logger.Info("GUESS_SUCCESS", "sessionId", sessionID, "position", req.Position, "correct", outcome.Correct, "duration", duration)
	respondJSON(w, http.StatusOK, outcome)
}

func handleNavigate(
	w http.ResponseWriter,
	r *http.Request,
	sessionService *dsvc.SessionService,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	sessionID := r.PathValue("sessionId")
	userID := resolveUserID(r)

	var req NavigateRequest
	if err := httputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		logger.Debug("NAVIGATE_PARSE_FAILED", "sessionId", sessionID, "err", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := sessionService.Navigate(r.Context(), sessionID, userID, req.Position)
	if err != nil {
		respondServiceError(w, err, msgProvider, logger, "NAVIGATE_FAILED", "sessionId", sessionID, "position", req.Position)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func handleSkip(
	w http.ResponseWriter,
	r *http.Request,
	sessionService *dsvc.SessionService,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	sessionID := r.PathValue("sessionId")
	userID := resolveUserID(r)

	snapshot, err := sessionService.Skip(r.Context(), sessionID, userID)
	if err != nil {
		respondServiceError(w, err, msgProvider, logger, "SKIP_FAILED", "sessionId", sessionID)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func handleForfeit(
	w http.ResponseWriter,
	r *http.Request,
	sessionService *dsvc.SessionService,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	sessionID := r.PathValue("sessionId")
	userID := resolveUserID(r)

	start := time.Now()
	snapshot, err := sessionService.Forfeit(r.Context(), sessionID, userID)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		respondServiceError(w, err, msgProvider, logger, "FORFEIT_FAILED", "sessionId", sessionID, "duration", duration)
		return
	}

	logger.Info("FORFEIT_SUCCESS", "sessionId", sessionID, "duration", duration)
	respondJSON(w, http.StatusOK, snapshot)
}

// UserStatsResponse: 사용자 통계 응답 DTO
type UserStatsResponse struct {
	UserID            string     `json:"userId"`
	TotalAttempts     int        `json:"totalAttempts"`
	TotalAllCorrect   int        `json:"totalAllCorrect"`
	TotalTimeExpired  int        `json:"totalTimeExpired"`
	TotalForfeited    int        `json:"totalForfeited"`
	TotalWrongGuesses int        `json:"totalWrongGuesses"`
	TotalPoints       int64      `json:"totalPoints"`
	BestScore         int64      `json:"bestScore"`
	BestScoreAt       *time.Time `json:"bestScoreAt,omitempty"`
}

func handleUserStats(
	w http.ResponseWriter,
	r *http.Request,
	sessionService *dsvc.SessionService,
	logger *slog.Logger,
) {
	userID := strings.TrimSpace(r.PathValue("userId"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	stats, err := sessionService.PlayerStats(r.Context(), userID)
	if err != nil {
		logger.Error("USER_STATS_FAILED", "userId", userID, "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, UserStatsResponse{
		UserID:            stats.UserID,
		TotalAttempts:     stats.TotalAttempts,
		TotalAllCorrect:   stats.TotalAllCorrect,
		TotalTimeExpired:  stats.TotalTimeExpired,
		TotalForfeited:    stats.TotalForfeited,
		TotalWrongGuesses: stats.TotalWrongGuesses,
		TotalPoints:       stats.TotalPoints,
		BestScore:         stats.BestScore,
		BestScoreAt:       stats.BestScoreAt,
	})
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
	derrors "github.com/park285/shotdle-server-go/internal/daily/errors"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
	drepo "github.com/park285/shotdle-server-go/internal/daily/repository"
)

// StartChallenge: 해당 날짜의 챌린지 세션을 시작하거나 진행 중 세션을 재개한다.
// date가 비어 있으면 서버 시계 기준 오늘(UTC)을 사용한다.
// 같은 유저+챌린지의 동시 시작은 전용 락으로 직렬화되어 세션이 하나만 만들어진다.
func (s *SessionService) StartChallenge(ctx context.Context, userID string, date string) (*dmodel.Snapshot, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, derrors.ValidationError{Field: "userId", Reason: "empty"}
	}

	date = strings.TrimSpace(date)
	if date == "" {
		date = s.clock.Now().UTC().Format(dconfig.ChallengeDateLayout)
	} else if _, err := time.Parse(dconfig.ChallengeDateLayout, date); err != nil {
		return nil, derrors.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}

	challenge, err := s.repo.GetChallengeByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	// 완료 기록이 있으면 재시작 불가 (하루 1회)
	done, err := s.repo.FindCompletedSession(ctx, userID, challenge.ID)
	if err != nil {
		return nil, err
	}
	if done != nil {
		return nil, derrors.AlreadyCompletedError{ChallengeID: challenge.ID, UserID: userID}
	}

	startScope := "start:" + userID + ":" + strconv.FormatInt(challenge.ID, 10)

	var snapshot *dmodel.Snapshot
	err = s.lockManager.WithSessionLock(ctx, startScope, func(ctx context.Context) error {
		existingID, err := s.sessionStore.FindUserSession(ctx, userID, challenge.ID)
		if err != nil {
			return err
		}
		if existingID != "" {
			snap, resumed, err := s.resumeExisting(ctx, existingID, userID)
			if err != nil {
				return err
			}
			if resumed {
				snapshot = snap
				return nil
			}
			// 인덱스만 남고 상태가 만료된 경우: 새로 시작
		}

		snap, err := s.createSession(ctx, userID, challenge.ID)
		if err != nil {
			return err
		}
		snapshot = snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// resumeExisting: 진행 중 세션을 재개한다. 만료된 세션은 이 시점에 종료 확정된다.
// 상태 조회와 스냅샷 생성은 동시 뮤테이션과의 경합을 막기 위해 세션 락 안에서 수행된다.
func (s *SessionService) resumeExisting(ctx context.Context, sessionID string, userID string) (*dmodel.Snapshot, bool, error) {
	var (
		snapshot *dmodel.Snapshot
		resumed  bool
	)
	err := s.lockManager.WithSessionLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.sessionStore.LoadState(ctx, sessionID)
		if err != nil {
			return err
		}
		if state == nil {
			return nil
		}
		if state.UserID != userID {
			return derrors.ForbiddenError{SessionID: sessionID, UserID: userID}
		}
		if state.Completed {
			return derrors.AlreadyCompletedError{ChallengeID: state.ChallengeID, UserID: userID}
		}

		now := s.clock.Now()
		current, expired, err := s.expireIfNeededLocked(ctx, *state, now)
		if err != nil {
			return err
		}
		if expired {
			return derrors.AlreadyCompletedError{ChallengeID: current.ChallengeID, UserID: userID}
		}

		snap := current.ToSnapshot(now)
		snapshot = &snap
		resumed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !resumed {
		return nil, false, nil
	}

	s.logger.Info("session_resumed", "session_id", sessionID, "user_id", userID)
	return snapshot, true, nil
}

func (s *SessionService) createSession(ctx context.Context, userID string, challengeID int64) (*dmodel.Snapshot, error) {
	tier, err := s.repo.GetFirstTier(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	layout, err := s.tierLayout(ctx, tier.ID)
	if err != nil {
		return nil, err
	}
	if len(layout) == 0 {
		return nil, fmt.Errorf("tier has no screenshots tierId=%d", tier.ID)
	}

	now := s.clock.Now()
	sessionID := drepo.GenerateSessionID(userID)
	state := dmodel.NewInitialState(sessionID, userID, challengeID, tier.ID, len(layout), tier.TimeLimitSeconds, now)

	if err := s.sessionStore.SaveState(ctx, state); err != nil {
		return nil, err
	}
	if err := s.sessionStore.BindUserSession(ctx, userID, challengeID, sessionID); err != nil {
		return nil, err
	}

	s.logger.Info("session_started",
		"session_id", sessionID,
		"user_id", userID,
		"challenge_id", challengeID,
		"positions", len(layout),
		"time_limit_seconds", tier.TimeLimitSeconds,
	)

	snap := state.ToSnapshot(now)
	return &snap, nil
}

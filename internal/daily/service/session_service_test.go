package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/jonboulle/clockwork"
	"github.com/valkey-io/valkey-go"
	"gorm.io/gorm"

	cerrors "github.com/park285/shotdle-server-go/internal/common/errors"
	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
	derrors "github.com/park285/shotdle-server-go/internal/daily/errors"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
	dredis "github.com/park285/shotdle-server-go/internal/daily/redis"
	drepo "github.com/park285/shotdle-server-go/internal/daily/repository"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	svc      *SessionService
	repo     *drepo.Repository
	db       *gorm.DB
	clock    *clockwork.FakeClock
	recorder *StatsRecorder
	store    *flakySessionStore

	challengeID int64
	tierID      int64
	gameIDs     []int64
}

// flakySessionStore: 상태 저장 실패를 주입할 수 있는 래퍼.
type flakySessionStore struct {
	SessionStateStore
	failSaves bool
}

func (f *flakySessionStore) SaveState(ctx context.Context, state dmodel.SessionState) error {
	if f.failSaves {
		return errors.New("state save refused")
	}
	return f.SessionStateStore.SaveState(ctx, state)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("failed to create valkey client: %v", err)
	}
	t.Cleanup(client.Close)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := drepo.New(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	recorder := NewStatsRecorder(repo, dconfig.StatsConfig{WorkerCount: 1, QueueSize: 10}, logger)
	t.Cleanup(recorder.Shutdown)

	clock := clockwork.NewFakeClockAt(testNow)
	scoring := dconfig.ScoringConfig{BasePoints: 1000, DecayPerSecond: 2, WrongGuessPenalty: 100}

	store := &flakySessionStore{SessionStateStore: dredis.NewSessionStore(client, logger)}
	svc := NewSessionService(
		repo,
		store,
		dredis.NewLockManager(client, logger),
		nil,
		recorder,
		clock,
		scoring,
		logger,
	)

	env := &testEnv{svc: svc, repo: repo, db: db, clock: clock, recorder: recorder, store: store}
	env.seed(t)
	return env
}

// seed: 2026-03-01 챌린지에 스크린샷 3장을 구성한다. (3번 포지션은 1.5배 보너스)
func (e *testEnv) seed(t *testing.T) {
	t.Helper()

	challenge := drepo.Challenge{Date: "2026-03-01"}
	if err := e.db.Create(&challenge).Error; err != nil {
		t.Fatalf("failed to seed challenge: %v", err)
	}
	e.challengeID = challenge.ID

	tier := drepo.Tier{
		ChallengeID:      challenge.ID,
		Number:           1,
		Name:             "Daily Challenge",
		TimeLimitSeconds: 300,
	}
	if err := e.db.Create(&tier).Error; err != nil {
		t.Fatalf("failed to seed tier: %v", err)
	}
	e.tierID = tier.ID

	titles := []string{"Half-Life 2", "Portal", "Celeste"}
	for position, title := range titles {
		game := drepo.Game{Title: title}
		if err := e.db.Create(&game).Error; err != nil {
			t.Fatalf("failed to seed game: %v", err)
		}
		e.gameIDs = append(e.gameIDs, game.ID)

		shot := drepo.Screenshot{GameID: game.ID, ImageURL: "https://cdn.example/shot.png"}
		if err := e.db.Create(&shot).Error; err != nil {
			t.Fatalf("failed to seed screenshot: %v", err)
		}

		bonus := 1.0
		if position == 2 {
			bonus = 1.5
		}
		binding := drepo.TierScreenshot{
			TierID:          tier.ID,
			Position:        position + 1,
			ScreenshotID:    shot.ID,
			BonusMultiplier: bonus,
		}
		if err := e.db.Create(&binding).Error; err != nil {
			t.Fatalf("failed to seed tier screenshot: %v", err)
		}
	}
}

func (e *testEnv) start(t *testing.T, userID string) *dmodel.Snapshot {
	t.Helper()
	snap, err := e.svc.StartChallenge(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return snap
}

func (e *testEnv) guessByID(t *testing.T, sessionID, userID string, position int, gameID int64) (*dmodel.GuessOutcome, error) {
	t.Helper()
	return e.svc.SubmitGuess(context.Background(), GuessParams{
		SessionID: sessionID,
		UserID:    userID,
		Position:  position,
		GameID:    &gameID,
	})
}

func TestStartChallenge_NewSession(t *testing.T) {
	env := newTestEnv(t)

	snap := env.start(t, "user-1")
	if snap.SessionID == "" {
		t.Fatal("expected session id")
	}
	if snap.CurrentPosition != 1 {
		t.Errorf("expected position 1, got %d", snap.CurrentPosition)
	}
	if len(snap.PositionStates) != 3 {
		t.Errorf("expected 3 positions, got %d", len(snap.PositionStates))
	}
	if snap.RemainingMillis != 300_000 {
		t.Errorf("expected 300000ms remaining, got %d", snap.RemainingMillis)
	}
	if snap.IsCompleted {
		t.Error("new session must not be completed")
	}
}

func TestStartChallenge_ResumesExisting(t *testing.T) {
	env := newTestEnv(t)

	first := env.start(t, "user-1")
	env.clock.Advance(10 * time.Second)
	second := env.start(t, "user-1")

	if first.SessionID != second.SessionID {
		t.Errorf("expected resume of %s, got %s", first.SessionID, second.SessionID)
	}
	if second.RemainingMillis != 290_000 {
		t.Errorf("expected 290000ms remaining, got %d", second.RemainingMillis)
	}
}

func TestStartChallenge_UnknownDate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.StartChallenge(context.Background(), "user-1", "2026-03-02")
	var notFound derrors.ChallengeNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected ChallengeNotFoundError, got %v", err)
	}

	_, err = env.svc.StartChallenge(context.Background(), "user-1", "bad-date")
	var validation derrors.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestSubmitGuess_CorrectAfterFiveSeconds(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	env.clock.Advance(5 * time.Second)
	outcome, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0])
	if err != nil {
		t.Fatalf("guess failed: %v", err)
	}
	if !outcome.Correct {
		t.Fatal("expected correct")
	}
	// 1000 - 2*5 = 990
	if outcome.AwardedPoints != 990 {
		t.Errorf("expected 990 points, got %d", outcome.AwardedPoints)
	}
	if outcome.TotalScore != 990 {
		t.Errorf("expected total 990, got %d", outcome.TotalScore)
	}
	if outcome.Completed {
		t.Error("session must not be completed yet")
	}

	// 정답 후 포인터는 다음 열린 포지션으로 이동한다.
	after, err := env.svc.GetSnapshot(context.Background(), snap.SessionID, "user-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if after.CurrentPosition != 2 {
		t.Errorf("expected position 2, got %d", after.CurrentPosition)
	}
}

func TestSubmitGuess_WrongAppliesPenalty(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	env.clock.Advance(5 * time.Second)
	if _, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0]); err != nil {
		t.Fatalf("correct guess failed: %v", err)
	}

	// 2번 포지션에 오답 제출 → -100
	outcome, err := env.guessByID(t, snap.SessionID, "user-1", 2, env.gameIDs[0])
	if err != nil {
		t.Fatalf("wrong guess failed: %v", err)
	}
	if outcome.Correct {
		t.Fatal("expected wrong")
	}
	if outcome.AwardedPoints != 0 {
		t.Errorf("wrong guess must award 0, got %d", outcome.AwardedPoints)
	}
	if outcome.TotalScore != 890 {
		t.Errorf("expected total 890, got %d", outcome.TotalScore)
	}

	// 오답은 포인터를 이동시키지 않는다.
	after, err := env.svc.GetSnapshot(context.Background(), snap.SessionID, "user-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if after.CurrentPosition != 2 {
		t.Errorf("expected position 2, got %d", after.CurrentPosition)
	}
	if after.WrongGuesses != 1 {
		t.Errorf("expected 1 wrong guess, got %d", after.WrongGuesses)
	}
}

func TestSubmitGuess_PenaltyFloorsAtZero(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	for i := 0; i < 3; i++ {
		outcome, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[1])
		if err != nil {
			t.Fatalf("wrong guess %d failed: %v", i, err)
		}
		if outcome.TotalScore != 0 {
			t.Errorf("score must stay at 0, got %d", outcome.TotalScore)
		}
	}
}

func TestSubmitGuess_TextNeverDecidesCorrectness(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")
	ctx := context.Background()

	// 제목과 사실상 일치하는 텍스트라도 GameID 없는 제출은 오답이다.
	for _, text := range []string{"Half-Life 2", "HALF   life-2!!"} {
		outcome, err := env.svc.SubmitGuess(ctx, GuessParams{
			SessionID: snap.SessionID,
			UserID:    "user-1",
			Position:  1,
			GuessText: text,
		})
		if err != nil {
			t.Fatalf("text guess %q failed: %v", text, err)
		}
		if outcome.Correct {
			t.Fatalf("free text %q must not decide correctness", text)
		}
		if outcome.AwardedPoints != 0 {
			t.Errorf("text guess must award 0, got %d", outcome.AwardedPoints)
		}
	}

	after, err := env.svc.GetSnapshot(ctx, snap.SessionID, "user-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if after.WrongGuesses != 2 {
		t.Errorf("expected 2 wrong guesses, got %d", after.WrongGuesses)
	}
	if after.CurrentPosition != 1 {
		t.Errorf("pointer must stay on 1, got %d", after.CurrentPosition)
	}

	// GameID도 텍스트도 없는 제출은 검증 오류
	_, err = env.svc.SubmitGuess(ctx, GuessParams{
		SessionID: snap.SessionID,
		UserID:    "user-1",
		Position:  1,
		GuessText: "   ",
	})
	var validation derrors.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestSubmitGuess_ConcurrentSamePosition(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	var wg sync.WaitGroup
	outcomes := make([]*dmodel.GuessOutcome, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0])
		}(i)
	}
	wg.Wait()

	correct := 0
	for i := 0; i < 2; i++ {
		if errs[i] == nil {
			if outcomes[i] == nil || !outcomes[i].Correct {
				t.Fatalf("submission %d succeeded but outcome is %+v", i, outcomes[i])
			}
			correct++
			continue
		}
		// 진 쪽은 락 재시도 후 AlreadySolved를 보거나, 대기 한도 초과로 LockError를 받는다.
		var solved derrors.AlreadySolvedError
		var lockErr cerrors.LockError
		if !errors.As(errs[i], &solved) && !errors.As(errs[i], &lockErr) {
			t.Fatalf("submission %d: expected AlreadySolvedError or LockError, got %v", i, errs[i])
		}
	}
	if correct != 1 {
		t.Fatalf("expected exactly one correct submission, got %d", correct)
	}
}

func TestStartChallenge_ResumeSeesLatestMutation(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	env.clock.Advance(5 * time.Second)
	if _, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0]); err != nil {
		t.Fatalf("guess failed: %v", err)
	}

	resumed := env.start(t, "user-1")
	if resumed.SessionID != snap.SessionID {
		t.Fatalf("expected resume of %s, got %s", snap.SessionID, resumed.SessionID)
	}
	if resumed.TotalScore != 990 {
		t.Errorf("resume must reflect the awarded score, got %d", resumed.TotalScore)
	}
	if resumed.CurrentPosition != 2 {
		t.Errorf("resume must reflect the advanced pointer, got %d", resumed.CurrentPosition)
	}
}

func TestSubmitGuess_NoAuditRowWhenStateSaveFails(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	env.store.failSaves = true
	if _, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[1]); err == nil {
		t.Fatal("expected state save failure to surface")
	}
	if n := env.countGuesses(t); n != 0 {
		t.Fatalf("failed submission must not leave an audit row, found %d", n)
	}

	// 재시도가 성공하면 논리적 제출 1건당 이력도 1건이다.
	env.store.failSaves = false
	if _, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[1]); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if n := env.countGuesses(t); n != 1 {
		t.Fatalf("expected exactly one audit row after retry, got %d", n)
	}
}

func (e *testEnv) countGuesses(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&drepo.Guess{}).Count(&n).Error; err != nil {
		t.Fatalf("count guesses failed: %v", err)
	}
	return n
}

func TestSubmitGuess_WrongPositionRejected(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	_, err := env.guessByID(t, snap.SessionID, "user-1", 2, env.gameIDs[1])
	var invalid derrors.InvalidPositionError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidPositionError, got %v", err)
	}
}

func TestSubmitGuess_SolvedPositionRejected(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")
	ctx := context.Background()

	if _, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0]); err != nil {
		t.Fatalf("correct guess failed: %v", err)
	}

	// 맞힌 포지션으로 되돌아가는 것은 허용되지만 재추측은 거부된다.
	if _, err := env.svc.Navigate(ctx, snap.SessionID, "user-1", 1); err != nil {
		t.Fatalf("navigate back failed: %v", err)
	}
	_, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0])
	var solved derrors.AlreadySolvedError
	if !errors.As(err, &solved) {
		t.Errorf("expected AlreadySolvedError, got %v", err)
	}
}

func TestSubmitGuess_ForbiddenForOtherUser(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	_, err := env.guessByID(t, snap.SessionID, "user-2", 1, env.gameIDs[0])
	var forbidden derrors.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Errorf("expected ForbiddenError, got %v", err)
	}
}

func TestSkip_MovesToNextOpenPosition(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")
	ctx := context.Background()

	after, err := env.svc.Skip(ctx, snap.SessionID, "user-1")
	if err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if after.CurrentPosition != 2 {
		t.Errorf("expected position 2, got %d", after.CurrentPosition)
	}
	if after.PositionStates[0] != dmodel.PositionSkipped {
		t.Errorf("expected position 1 skipped, got %s", after.PositionStates[0])
	}

	// 스킵된 포지션으로 돌아와 맞히면 정상 득점한다.
	if _, err := env.svc.Navigate(ctx, snap.SessionID, "user-1", 1); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	outcome, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0])
	if err != nil {
		t.Fatalf("guess on skipped failed: %v", err)
	}
	if !outcome.Correct {
		t.Error("skipped position must remain guessable")
	}
}

func TestSkip_WrapsBackToSkipped(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")
	ctx := context.Background()

	// 1, 2 스킵 → 3에서 스킵하면 앞쪽 스킵 포지션으로 되돌아간다.
	for i := 0; i < 2; i++ {
		if _, err := env.svc.Skip(ctx, snap.SessionID, "user-1"); err != nil {
			t.Fatalf("skip %d failed: %v", i, err)
		}
	}
	after, err := env.svc.Skip(ctx, snap.SessionID, "user-1")
	if err != nil {
		t.Fatalf("third skip failed: %v", err)
	}
	if after.CurrentPosition != 1 {
		t.Errorf("expected wrap to position 1, got %d", after.CurrentPosition)
	}
}

func TestNavigate_InvalidPosition(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	_, err := env.svc.Navigate(context.Background(), snap.SessionID, "user-1", 4)
	var invalid derrors.InvalidNavigationError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidNavigationError, got %v", err)
	}
}

func TestAllCorrect_FinalizesSession(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")
	ctx := context.Background()

	env.clock.Advance(5 * time.Second)
	for position := 1; position <= 3; position++ {
		outcome, err := env.guessByID(t, snap.SessionID, "user-1", position, env.gameIDs[position-1])
		if err != nil {
			t.Fatalf("guess %d failed: %v", position, err)
		}
		if !outcome.Correct {
			t.Fatalf("guess %d must be correct", position)
		}
		if position == 3 {
			if !outcome.Completed || outcome.Reason != dmodel.CompletionAllCorrect {
				t.Errorf("expected all_correct completion, got %+v", outcome)
			}
			// 990 + 990 + floor(990*1.5) = 3465
			if outcome.TotalScore != 3465 {
				t.Errorf("expected total 3465, got %d", outcome.TotalScore)
			}
		}
	}

	// 완료 기록은 DB에 정확히 한 번 남는다.
	record, err := env.repo.FindCompletedSession(ctx, "user-1", env.challengeID)
	if err != nil {
		t.Fatalf("find completed failed: %v", err)
	}
	if record == nil {
		t.Fatal("expected completion record")
	}
	if record.CompletionReason != string(dmodel.CompletionAllCorrect) || record.TotalScore != 3465 {
		t.Errorf("record mismatch: %+v", record)
	}

	// 완료 후 추가 조작은 거부된다.
	_, err = env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0])
	var completedErr derrors.SessionCompletedError
	if !errors.As(err, &completedErr) {
		t.Errorf("expected SessionCompletedError, got %v", err)
	}
	_, err = env.svc.Skip(ctx, snap.SessionID, "user-1")
	if !errors.As(err, &completedErr) {
		t.Errorf("expected SessionCompletedError on skip, got %v", err)
	}

	// 같은 챌린지 재시작도 거부된다.
	_, err = env.svc.StartChallenge(ctx, "user-1", "")
	var already derrors.AlreadyCompletedError
	if !errors.As(err, &already) {
		t.Errorf("expected AlreadyCompletedError, got %v", err)
	}

	// 비동기 통계 큐를 비운 뒤 집계를 확인한다.
	env.recorder.Shutdown()
	stats, err := env.svc.PlayerStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalAttempts != 1 || stats.TotalAllCorrect != 1 {
		t.Errorf("stats mismatch: %+v", stats)
	}
	if stats.BestScore != 3465 {
		t.Errorf("expected best score 3465, got %d", stats.BestScore)
	}
}

func TestLazyExpiry_OnSnapshot(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")
	ctx := context.Background()

	env.clock.Advance(301 * time.Second)

	after, err := env.svc.GetSnapshot(ctx, snap.SessionID, "user-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if !after.IsCompleted || after.CompletionReason != dmodel.CompletionTimeExpired {
		t.Errorf("expected lazy time_expired completion, got %+v", after)
	}
	if after.RemainingMillis != 0 {
		t.Errorf("expected 0 remaining, got %d", after.RemainingMillis)
	}

	record, err := env.repo.FindCompletedSession(ctx, "user-1", env.challengeID)
	if err != nil {
		t.Fatalf("find completed failed: %v", err)
	}
	if record == nil || record.CompletionReason != string(dmodel.CompletionTimeExpired) {
		t.Errorf("expected time_expired record, got %+v", record)
	}
}

func TestLazyExpiry_OnGuess(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	env.clock.Advance(301 * time.Second)

	// 만료 후 제출은 판정 없이 종료 확정으로 거부된다.
	_, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0])
	var completedErr derrors.SessionCompletedError
	if !errors.As(err, &completedErr) {
		t.Fatalf("expected SessionCompletedError, got %v", err)
	}
	if completedErr.Reason != string(dmodel.CompletionTimeExpired) {
		t.Errorf("expected time_expired reason, got %q", completedErr.Reason)
	}

	record, err := env.repo.FindCompletedSession(context.Background(), "user-1", env.challengeID)
	if err != nil {
		t.Fatalf("find completed failed: %v", err)
	}
	if record == nil {
		t.Fatal("expiry must be persisted even though the guess was rejected")
	}
}

func TestForfeit(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")
	ctx := context.Background()

	env.clock.Advance(5 * time.Second)
	if _, err := env.guessByID(t, snap.SessionID, "user-1", 1, env.gameIDs[0]); err != nil {
		t.Fatalf("guess failed: %v", err)
	}

	after, err := env.svc.Forfeit(ctx, snap.SessionID, "user-1")
	if err != nil {
		t.Fatalf("forfeit failed: %v", err)
	}
	if !after.IsCompleted || after.CompletionReason != dmodel.CompletionForfeited {
		t.Errorf("expected forfeited completion, got %+v", after)
	}
	// 포기 시점까지의 점수는 보존된다.
	if after.TotalScore != 990 {
		t.Errorf("expected score 990, got %d", after.TotalScore)
	}

	// 이미 종료된 세션의 재포기는 거부된다.
	_, err = env.svc.Forfeit(ctx, snap.SessionID, "user-1")
	var completedErr derrors.SessionCompletedError
	if !errors.As(err, &completedErr) {
		t.Errorf("expected SessionCompletedError, got %v", err)
	}
}

func TestForfeit_ExpiryWins(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	env.clock.Advance(301 * time.Second)

	after, err := env.svc.Forfeit(context.Background(), snap.SessionID, "user-1")
	if err != nil {
		t.Fatalf("forfeit failed: %v", err)
	}
	// 제한 시간이 이미 지났으면 포기보다 만료가 우선한다.
	if after.CompletionReason != dmodel.CompletionTimeExpired {
		t.Errorf("expected time_expired, got %s", after.CompletionReason)
	}
}

func TestGetCurrentScreenshot(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")

	// position 0은 현재 포인터의 포지션을 의미한다.
	view, err := env.svc.GetCurrentScreenshot(context.Background(), snap.SessionID, 0, "user-1")
	if err != nil {
		t.Fatalf("screenshot failed: %v", err)
	}
	if view.Position != 1 {
		t.Errorf("expected position 1, got %d", view.Position)
	}
	if view.ImageURL == "" {
		t.Error("expected image url")
	}
	if view.RemainingMillis != 300_000 {
		t.Errorf("expected 300000ms remaining, got %d", view.RemainingMillis)
	}
}

func TestGetCurrentScreenshot_ByPosition(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")
	ctx := context.Background()

	first, err := env.svc.GetCurrentScreenshot(ctx, snap.SessionID, 1, "user-1")
	if err != nil {
		t.Fatalf("screenshot for position 1 failed: %v", err)
	}
	second, err := env.svc.GetCurrentScreenshot(ctx, snap.SessionID, 2, "user-1")
	if err != nil {
		t.Fatalf("screenshot for position 2 failed: %v", err)
	}
	if second.Position != 2 {
		t.Errorf("expected position 2, got %d", second.Position)
	}
	if first.ScreenshotID == second.ScreenshotID {
		t.Error("positions must serve distinct screenshots")
	}

	// 티어 범위를 벗어난 포지션은 거부된다.
	_, err = env.svc.GetCurrentScreenshot(ctx, snap.SessionID, 4, "user-1")
	var invalid derrors.InvalidPositionError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidPositionError, got %v", err)
	}
}

func TestGetSnapshot_UnknownSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GetSnapshot(context.Background(), "no-such-session", "user-1")
	var notFound derrors.SessionNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected SessionNotFoundError, got %v", err)
	}
}

func TestHasSession(t *testing.T) {
	env := newTestEnv(t)
	snap := env.start(t, "user-1")
	ctx := context.Background()

	exists, err := env.svc.HasSession(ctx, snap.SessionID)
	if err != nil || !exists {
		t.Errorf("expected session to exist, got %v err=%v", exists, err)
	}
	exists, err = env.svc.HasSession(ctx, "missing")
	if err != nil || exists {
		t.Errorf("expected missing session, got %v err=%v", exists, err)
	}
}

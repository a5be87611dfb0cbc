package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
	dmodel "github.com/park285/shotdle-server-go/internal/daily/model"
	drepo "github.com/park285/shotdle-server-go/internal/daily/repository"
)

// StatsRecorder: 완료 기록을 사용자 통계에 비동기로 반영하는 워커.
// 통계 반영 실패는 게임 플로우에 영향을 주지 않는다.
type StatsRecorder struct {
	repo   *drepo.Repository
	logger *slog.Logger

	completionQueue chan statsJob
	wg              sync.WaitGroup
	stopOnce        sync.Once
	stopped         chan struct{}
}

type statsJob struct {
	record       dmodel.CompletionRecord
	wrongGuesses int
	now          time.Time
}

// NewStatsRecorder 는 동작을 수행한다.
func NewStatsRecorder(repo *drepo.Repository, cfg dconfig.StatsConfig, logger *slog.Logger) *StatsRecorder {
	if repo == nil {
		return nil
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}

	r := &StatsRecorder{
		repo:            repo,
		logger:          logger,
		completionQueue: make(chan statsJob, cfg.QueueSize),
		stopped:         make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	logger.Info("stats_recorder_started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return r
}

// Shutdown 정상 종료 - 대기 중인 작업 완료 후 종료
func (r *StatsRecorder) Shutdown() {
	if r == nil {
		return
	}

	r.stopOnce.Do(func() {
		close(r.stopped)
		close(r.completionQueue)
		r.wg.Wait()
		r.logger.Info("stats_recorder_shutdown_complete")
	})
}

func (r *StatsRecorder) worker(id int) {
	defer r.wg.Done()

	for job := range r.completionQueue {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		r.process(ctx, job)
		cancel()
	}

	r.logger.Debug("stats_worker_stopped", "worker_id", id)
}

// RecordCompletion: 완료 1건을 통계 큐에 추가한다.
// 큐가 가득 차면 동기로 처리한다. (fallback)
func (r *StatsRecorder) RecordCompletion(ctx context.Context, record dmodel.CompletionRecord, wrongGuesses int) {
	if r == nil || r.repo == nil {
		return
	}

	job := statsJob{record: record, wrongGuesses: wrongGuesses, now: time.Now()}

	select {
	case r.completionQueue <- job:
	case <-r.stopped:
		r.logger.Warn("stats_recorder_stopped_dropping_record", "session_id", record.SessionID)
	default:
		r.logger.Warn("stats_queue_full_sync_fallback", "session_id", record.SessionID)
		r.process(ctx, job)
	}
}

// RecordCompletionSync: 완료 기록을 동기로 처리한다. (테스트용)
func (r *StatsRecorder) RecordCompletionSync(ctx context.Context, record dmodel.CompletionRecord, wrongGuesses int) {
	if r == nil || r.repo == nil {
		return
	}
	r.process(ctx, statsJob{record: record, wrongGuesses: wrongGuesses, now: time.Now()})
}

func (r *StatsRecorder) process(ctx context.Context, job statsJob) {
	if err := r.repo.RecordPlayerCompletion(ctx, drepo.PlayerCompletionParams{
		UserID:       job.record.UserID,
		Reason:       job.record.Reason,
		TotalScore:   job.record.TotalScore,
		WrongGuesses: job.wrongGuesses,
		CompletedAt:  job.record.CompletedAt,
		Now:          job.now,
	}); err != nil {
		r.logger.Warn("stats_completion_failed", "user_id", job.record.UserID, "err", err)
	}
}

// PlayerStats: 사용자 통계 조회를 서비스 경유로 노출한다.
func (s *SessionService) PlayerStats(ctx context.Context, userID string) (*drepo.PlayerStats, error) {
	return s.repo.GetPlayerStats(ctx, userID)
}

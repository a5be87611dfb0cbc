package app

import (
	"context"
	"log/slog"

	"github.com/park285/shotdle-server-go/internal/common/bootstrap"
	"github.com/park285/shotdle-server-go/internal/daily/config"
)

// Initialize 는 데일리 챌린지 애플리케이션 의존성을 초기화하고 ServerApp을 반환한다.
func Initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	msgProvider, err := newDailyMessageProvider()
	if err != nil {
		return nil, nil, err
	}

	dataValkeyClient, cleanupDataValkey, err := newDailyDataRedis(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	stores := newDailyStores(dataValkeyClient, logger)

	db, cleanupDB, err := newDailyDB(ctx, cfg, logger)
	if err != nil {
		cleanupDataValkey()
		return nil, nil, err
	}

	repository, err := newDailyRepository(ctx, db)
	if err != nil {
		cleanupDB()
		cleanupDataValkey()
		return nil, nil, err
	}

	statsRecorder, cleanupStats := newDailyStatsRecorder(cfg, repository, logger)
	publisher := newDailyCompletionPublisher(cfg, dataValkeyClient, logger)

	sessionService := newDailySessionService(cfg, stores, repository, publisher, statsRecorder, logger)

	httpMux := newDailyHTTPMux(sessionService, msgProvider, logger)
	httpServer := newDailyHTTPServer(cfg, httpMux)

	serverApp := newDailyServerApp(logger, httpServer)

	cleanup := func() {
		cleanupStats()
		cleanupDB()
		cleanupDataValkey()
	}

	return serverApp, cleanup, nil
}

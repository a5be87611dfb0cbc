package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/park285/shotdle-server-go/internal/common/bootstrap"
	"github.com/park285/shotdle-server-go/internal/common/dbutil"
	"github.com/park285/shotdle-server-go/internal/common/di"
	"github.com/park285/shotdle-server-go/internal/common/httpserver"
	"github.com/park285/shotdle-server-go/internal/common/messageprovider"
	dassets "github.com/park285/shotdle-server-go/internal/daily/assets"
	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
	devents "github.com/park285/shotdle-server-go/internal/daily/events"
	dhttpapi "github.com/park285/shotdle-server-go/internal/daily/httpapi"
	dredis "github.com/park285/shotdle-server-go/internal/daily/redis"
	drepo "github.com/park285/shotdle-server-go/internal/daily/repository"
	dsvc "github.com/park285/shotdle-server-go/internal/daily/service"
)

type dailyStores struct {
	lockManager  *dredis.LockManager
	sessionStore *dredis.SessionStore
}

func newDailyStores(client di.DataValkeyClient, logger *slog.Logger) *dailyStores {
	return &dailyStores{
		lockManager:  dredis.NewLockManager(client.Client, logger),
		sessionStore: dredis.NewSessionStore(client.Client, logger),
	}
}

func newDailySessionService(
	cfg *dconfig.Config,
	stores *dailyStores,
	repository *drepo.Repository,
	publisher *devents.CompletionPublisher,
	statsRecorder *dsvc.StatsRecorder,
	logger *slog.Logger,
) *dsvc.SessionService {
	return dsvc.NewSessionService(
		repository,
		stores.sessionStore,
		stores.lockManager,
		publisher,
		statsRecorder,
		clockwork.NewRealClock(),
		cfg.Scoring,
		logger,
	)
}

func newDailyDataRedis(
	ctx context.Context,
	cfg *dconfig.Config,
	logger *slog.Logger,
) (di.DataValkeyClient, func(), error) {
	client, closeFn, err := bootstrap.NewAndPingDataValkeyClient(ctx, cfg.Redis, logger)
	if err != nil {
		return di.DataValkeyClient{}, nil, fmt.Errorf("init valkey failed: %w", err)
	}
	return client, closeFn, nil
}

func newDailyMessageProvider() (*messageprovider.Provider, error) {
	provider, err := messageprovider.NewFromYAMLAtPath(dassets.GameMessagesYAML, "shotdle")
	if err != nil {
		return nil, fmt.Errorf("load messages failed: %w", err)
	}
	return provider, nil
}

func newDailyDB(
	ctx context.Context,
	cfg *dconfig.Config,
	logger *slog.Logger,
) (*gorm.DB, func(), error) {
	// 스키마 마이그레이션/DB 기동이 끝나기 전에 앱이 시작되는 경우를 대비해 재시도한다.
	db, sqlDB, err := dbutil.OpenWithRetry(ctx, func(ctx context.Context) (*gorm.DB, *sql.DB, error) {
		return openPostgres(ctx, cfg.Postgres)
	}, dbutil.DefaultRetryConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres failed: %w", err)
	}

	closeFn := func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("postgres_close_failed", "err", closeErr)
		}
	}
	return db, closeFn, nil
}

func newDailyRepository(ctx context.Context, db *gorm.DB) (*drepo.Repository, error) {
	repo := drepo.New(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	return repo, nil
}

func newDailyStatsRecorder(cfg *dconfig.Config, repo *drepo.Repository, logger *slog.Logger) (*dsvc.StatsRecorder, func()) {
	recorder := dsvc.NewStatsRecorder(repo, cfg.Stats, logger)
	cleanup := func() {
		if recorder != nil {
			recorder.Shutdown()
		}
	}
	return recorder, cleanup
}

func newDailyCompletionPublisher(
	cfg *dconfig.Config,
	client di.DataValkeyClient,
	logger *slog.Logger,
) *devents.CompletionPublisher {
	return devents.NewCompletionPublisher(client.Client, logger, cfg.Events)
}

func newDailyHTTPMux(
	sessionService *dsvc.SessionService,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	dhttpapi.Register(mux, sessionService, msgProvider, logger)
	return mux
}

func newDailyHTTPServer(cfg *dconfig.Config, mux *http.ServeMux) *http.Server {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return httpserver.NewServer(addr, mux, httpserver.ServerOptions{
		UseH2C:            true,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
	})
}

func newDailyServerApp(logger *slog.Logger, server *http.Server) *bootstrap.ServerApp {
	return bootstrap.NewServerApp(
		"daily",
		logger,
		server,
		10*time.Second,
	)
}

func openPostgres(ctx context.Context, cfg dconfig.PostgresConfig) (*gorm.DB, *sql.DB, error) {
	var dsn string
	if cfg.SocketPath != "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.SocketPath,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
	} else {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("gorm open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, nil, fmt.Errorf("db ping failed: %w", err)
	}

	return db, sqlDB, nil
}

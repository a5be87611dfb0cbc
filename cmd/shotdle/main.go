package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/park285/shotdle-server-go/internal/common/bootstrap"
	"github.com/park285/shotdle-server-go/internal/common/health"
	dapp "github.com/park285/shotdle-server-go/internal/daily/app"
	dconfig "github.com/park285/shotdle-server-go/internal/daily/config"
)

// Version: 빌드 시 ldflags로 주입됨 (예: -ldflags="-X main.Version=1.0.0")
var Version = "dev"

func main() {
	health.Init(Version)

	logger := bootstrap.NewLogger()
	slog.SetDefault(logger)

	finalLogger, err := bootstrap.RunServiceEntrypoint(
		context.Background(),
		logger,
		"shotdle.log",
		dconfig.LoadFromEnv,
		func(cfg *dconfig.Config) dconfig.LogConfig { return cfg.Log },
		dapp.Initialize,
	)
	if err != nil {
		logger = finalLogger
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

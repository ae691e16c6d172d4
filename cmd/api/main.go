package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"rewardplane/pkg/config"
	"rewardplane/pkg/db"
	"rewardplane/pkg/health"
	"rewardplane/pkg/logger"
	"rewardplane/pkg/redis"
	"rewardplane/pkg/sequence"
	"rewardplane/pkg/server"
	"rewardplane/pkg/task"
	"rewardplane/services/audit"
	"rewardplane/services/campaign"
	"rewardplane/services/participant"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		task.Client,
		sequence.Module,
		health.Module,
		fx.Provide(
			provideSnowflakeNode,
		),
		campaign.Server,
		participant.Server,
		audit.Server,
		server.ProvideHTTPServer,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

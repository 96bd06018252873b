package main

import (
	"os"

	"connekt/config"
	"connekt/internal/api"
	"connekt/internal/database"
	"connekt/internal/logger"
	"connekt/internal/messaging"
	"connekt/internal/middle"
	"connekt/internal/taskgen"
	"connekt/internal/telemetry"
	"connekt/repository"
	"connekt/service"

	"github.com/jessevdk/go-flags"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	var opts config.Flags
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	app := fx.New(
		fx.Supply(opts),
		fx.Provide(
			config.LoadConfig,          // inject config
			logger.NewLogger,           // inject logger
			database.NewDBConnection,   // inject db connection
			database.NewRedisClient,    // inject redis client
			messaging.NewRabbitMQ,      // inject rabbitmq service
			messaging.NewPublisher,     // inject domain event publisher
			telemetry.NewTelemetry,     // inject telemetry service
			telemetry.NewTracerFactory, // inject tracer factory
			taskgen.NewGenerator,       // inject task generator
		),
		repository.Module,
		service.Module,
		middle.Module,
		api.Module,
		fx.Invoke(
			messaging.InitializeMQ,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			zlogger := fxevent.ZapLogger{Logger: log}
			zlogger.UseLogLevel(zap.DebugLevel)
			return &zlogger
		}),
	)
	app.Run()
}

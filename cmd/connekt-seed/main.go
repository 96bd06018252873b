package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connekt/config"
	"connekt/internal/database"
	"connekt/internal/logger"
	"connekt/internal/messaging"
	"connekt/internal/taskgen"
	"connekt/internal/watchdog"
	"connekt/repository"
	"connekt/service"

	"github.com/jessevdk/go-flags"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type Options struct {
	config.Flags

	Fixtures string `long:"fixtures" description:"YAML file with admin invites and workspaces" required:"true"`
	Watch    bool   `long:"watch" description:"keep running and re-apply the fixtures whenever the file changes"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	var (
		invites    service.InviteService
		workspaces service.WorkspaceService
		log        *zap.Logger
	)
	app := fx.New(
		fx.Supply(opts.Flags),
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDBConnection,
			messaging.NewPublisher,
			taskgen.NewGenerator,
			service.NewIdentityService,
			service.NewInviteService,
			service.NewWorkspaceService,
		),
		repository.Module,
		fx.Populate(&invites, &workspaces, &log),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	)
	if err := app.Err(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal("failed to start", zap.Error(err))
	}
	defer app.Stop(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedOnce(ctx, opts.Fixtures, invites, workspaces, log); err != nil {
		log.Fatal("failed to seed", zap.Error(err))
	}
	if !opts.Watch {
		return
	}

	changes := make(chan string)
	wd, err := watchdog.NewWatchDogFactory(log).New(ctx, changes, opts.Fixtures)
	if err != nil {
		log.Fatal("failed to watch fixtures", zap.Error(err))
	}
	log.Info("watching fixtures for changes", zap.String("path", opts.Fixtures))
	for range changes {
		if err := seedOnce(ctx, opts.Fixtures, invites, workspaces, log); err != nil {
			log.Error("failed to re-apply fixtures", zap.Error(err))
		}
	}
	<-wd.Done()
}

func seedOnce(ctx context.Context, path string, invites service.InviteService, workspaces service.WorkspaceService, log *zap.Logger) error {
	fixtures, err := loadFixtures(path)
	if err != nil {
		return err
	}
	if err := applyFixtures(ctx, fixtures, invites, workspaces, log); err != nil {
		return err
	}
	log.Info("fixtures applied", zap.Int("invites", len(fixtures.Invites)), zap.Int("workspaces", len(fixtures.Workspaces)))
	return nil
}

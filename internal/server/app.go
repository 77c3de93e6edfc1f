// Package server initializes and runs the identity server: it opens the
// database and Redis connections, runs schema migrations, wires the
// application services, restores the persisted cleanup schedule, and
// serves the REST API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/logging"
	"github.com/dmitrijs2005/identitykeeper/internal/server/config"
	hs "github.com/dmitrijs2005/identitykeeper/internal/server/http"
	"github.com/dmitrijs2005/identitykeeper/internal/server/jobs"
	"github.com/dmitrijs2005/identitykeeper/internal/server/locks"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/identitykeeper/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db        *sql.DB
	redis     *redis.Client
	registrar *jobs.CronRegistrar

	userService      *services.UserService
	tokenService     *services.TokenService
	bookService      *services.BookService
	schedulerService *services.SchedulerService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	lockFactory := locks.NewRedisFactory(redisClient, cfg.LockExpiry, cfg.LockWaitTime, cfg.LockRetryTime)

	registrar := jobs.NewCronRegistrar(ctx)

	clock := &common.RealClock{}

	us := services.NewUserService(db, rm, logger)
	ts := services.NewTokenService(db, rm, clock, logger, cfg)
	bs := services.NewBookService(db, rm, logger)
	cs := services.NewCleanupService(db, rm, lockFactory, clock, logger)
	ss := services.NewSchedulerService(db, rm, registrar, cs, logger)

	return &App{
		config:           cfg,
		logger:           logger,
		db:               db,
		redis:            redisClient,
		registrar:        registrar,
		userService:      us,
		tokenService:     ts,
		bookService:      bs,
		schedulerService: ss,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := hs.NewHTTPServer(app.config, app.logger,
		app.userService, app.tokenService, app.bookService, app.schedulerService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	// re-register the persisted cleanup schedule on startup
	if _, err := app.schedulerService.Schedule(ctx, ""); err != nil {
		app.logger.Error(ctx, "error restoring cleanup schedule", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.registrar.Stop()

	if err := app.redis.Close(); err != nil {
		app.logger.Error(ctx, "error closing redis client", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}

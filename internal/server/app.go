// Package server wires the profile backend together: PostgreSQL with
// migrations, the optional Redis cache, S3 revision archive and Kafka
// publisher, and the REST server. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/expertprofile/internal/logging"
	"github.com/dmitrijs2005/expertprofile/internal/server/archive"
	"github.com/dmitrijs2005/expertprofile/internal/server/cache"
	"github.com/dmitrijs2005/expertprofile/internal/server/config"
	"github.com/dmitrijs2005/expertprofile/internal/server/events"
	"github.com/dmitrijs2005/expertprofile/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/expertprofile/internal/server/rest"
	"github.com/dmitrijs2005/expertprofile/internal/server/services"
)

type closer interface {
	Close() error
}

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	profileService *services.ProfileService
	closers        []closer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{config: c, logger: logger, db: db}

	var pc services.Cache = cache.Nop{}
	if c.RedisAddr != "" {
		rc := cache.NewRedisCache(cache.RedisConfig{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB, TTL: c.CacheTTL})
		app.closers = append(app.closers, rc)
		pc = rc
		logger.Info(ctx, "Redis cache enabled", "addr", c.RedisAddr)
	}

	var pa services.Archive = archive.Nop{}
	if c.S3BaseEndpoint != "" {
		a, err := archive.NewS3Archive(ctx, archive.Config{
			User:     c.S3RootUser,
			Password: c.S3RootPassword,
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			app.close()
			return nil, err
		}
		pa = a
		logger.Info(ctx, "Revision archive enabled", "endpoint", c.S3BaseEndpoint, "bucket", c.S3Bucket)
	}

	var pp services.Publisher = events.Nop{}
	if len(c.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic, logger.With("module", "kafka"))
		app.closers = append(app.closers, kp)
		pp = kp
		logger.Info(ctx, "Kafka publisher enabled", "brokers", c.KafkaBrokers, "topic", c.KafkaTopic)
	}

	app.profileService = services.NewProfileService(db, rm, pc, pa, pp, logger.With("module", "profile_service"))
	return app, nil
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

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.HTTPAddr, app.logger, app.profileService, app.config.SecretKey,
		app.config.AllowedOrigins, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close() {
	if app.profileService != nil {
		app.profileService.Wait()
	}
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(context.Background(), "db close failed", "error", err)
	}
}

// Run blocks until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

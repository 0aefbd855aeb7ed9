package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"freelance-marketplace-api/internal/config"
	"freelance-marketplace-api/internal/controller"
	"freelance-marketplace-api/internal/notify"
	"freelance-marketplace-api/internal/repo"
	"freelance-marketplace-api/internal/service"
	"freelance-marketplace-api/pkg/http_server"
	"freelance-marketplace-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/labstack/gommon/log"
)

func runMigrations(pg *postgres.Postgres, sourceUrl string, databaseName string) error {
	driver, err := pgmigrate.WithInstance(pg.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, databaseName, driver)
	if err != nil {
		return fmt.Errorf("migration source %s: %w", sourceUrl, err)
	}

	if err := migrations.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no change made by migration scripts")
			return nil
		}

		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}

// setupNotifications builds the registry event streams subscribe to and the
// notifier the hiring service calls after commit. The returned cleanup closes
// broker connections.
func setupNotifications(ctx context.Context, cfg config.Config, wg *sync.WaitGroup) (notify.Registry, notify.Multi, func()) {
	hub := notify.NewHub()
	var registry notify.Registry = hub
	var closers []func() error

	if cfg.RedisAddr != "" {
		rdb, err := notify.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warnf("redis unavailable, events reach this instance only: %v", err)
		} else {
			relay := notify.NewRedisRelay(rdb, cfg.RedisChannel, hub)
			registry = relay
			closers = append(closers, rdb.Close)

			// Publish stays local until Run has a live subscription.
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := relay.Run(ctx); err != nil {
					log.Errorf("redis relay stopped: %v", err)
				}
			}()
			log.Infof("relaying hired events through redis channel %s", cfg.RedisChannel)
		}
	}

	notifiers := notify.Multi{notify.NewDispatcher(registry)}

	if cfg.RabbitURL != "" {
		publisher := notify.NewAmqpPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		notifiers = append(notifiers, publisher)
		closers = append(closers, publisher.Close)
		log.Infof("publishing hired events to queue %s", cfg.RabbitQueue)
	}

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warnf("close notification transport: %v", err)
			}
		}
	}

	return registry, notifiers, cleanup
}

func newEcho(cfg config.Config) *echo.Echo {
	handler := echo.New()
	handler.HideBanner = true
	handler.Logger.SetLevel(log.INFO)
	handler.Use(middleware.Recover())
	handler.Use(middleware.Logger())

	if len(cfg.AllowedOrigins) > 0 {
		handler.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{echo.GET, echo.POST, echo.PATCH, echo.OPTIONS},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	return handler
}

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Connecting database...")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer postgresDB.Close()

	log.Info("Running migrations...")
	if err := runMigrations(postgresDB, cfg.MigrationsPath, cfg.PostgresDB); err != nil {
		return err
	}

	var workers sync.WaitGroup
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	registry, notifier, closeNotifications := setupNotifications(workerCtx, cfg, &workers)
	defer func() {
		stopWorkers()
		workers.Wait()
		closeNotifications()
	}()

	repositories := repo.NewRepositories(postgresDB, cfg.LockTimeout)
	services := service.NewServices(repositories, notifier, service.Options{
		TxTimeout:     cfg.TxTimeout,
		NotifyTimeout: cfg.NotifyTimeout,
	})

	handler := newEcho(cfg)
	streamsDone := make(chan struct{})

	log.Info("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, registry, controller.RouterOptions{
		JWTSecret:    cfg.JWTSecret,
		SSEHeartbeat: cfg.SSEHeartbeat,
		SSEBuffer:    cfg.SSEBuffer,
		Done:         streamsDone,
	})

	log.Infof("Starting server on %s...", cfg.ServerAddress)
	httpServer := http_server.New(handler, cfg.ServerAddress,
		http_server.OnShutdown(func() { close(streamsDone) }),
	)

	select {
	case <-ctx.Done():
		log.Info("Got shutdown signal")
	case err := <-httpServer.Notify():
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("Shutting down...")
	if err := httpServer.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Successful shutdown")

	return nil
}

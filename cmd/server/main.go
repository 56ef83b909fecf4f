package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/iliyamo/scoped-auth/internal/config"
	"github.com/iliyamo/scoped-auth/internal/database"
	"github.com/iliyamo/scoped-auth/internal/handler"
	"github.com/iliyamo/scoped-auth/internal/logging"
	"github.com/iliyamo/scoped-auth/internal/queue"
	"github.com/iliyamo/scoped-auth/internal/repository"
	"github.com/iliyamo/scoped-auth/internal/router"
	"github.com/iliyamo/scoped-auth/internal/service"
	"github.com/iliyamo/scoped-auth/internal/utils"
)

func main() {
	if err := run(); err != nil {
		logging.New(os.Stderr, "").Error(context.Background(), "server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(os.Stdout, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info(ctx, "starting", "config", cfg.String())

	dsn := cfg.DBPath
	if cfg.DBDriver == "mysql" {
		dsn = database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	db, err := database.Open(cfg.DBDriver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, cfg.DBDriver, log); err != nil {
		return err
	}

	var store repository.AccountStore = repository.NewAccountRepo(db)
	if cfg.Cache.Enabled {
		if rdb := config.NewRedisClient(cfg.Redis); rdb != nil {
			defer rdb.Close()
			store = repository.NewCachedAccountStore(store, rdb, cfg.Cache.TTL, cfg.Cache.Prefix, log)
			log.Info(ctx, "account cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Cache.TTL.String())
		} else {
			log.Warn(ctx, "redis unavailable; account cache disabled", "addr", cfg.Redis.Addr)
		}
	}

	var workers background
	defer func() {
		stop()
		workers.wait()
	}()

	var events service.EventPublisher
	if cfg.Events.Enabled {
		events = queue.NewPublisher(cfg.Events.URL, cfg.Events.Queue)
		if cfg.Events.AuditConsumer {
			consumer := queue.NewAuditConsumer(cfg.Events.URL, cfg.Events.Queue, cfg.Events.AuditLogDir, log)
			workers.goRun(ctx, log, "audit consumer", consumer.Run)
		}
	}

	codec, err := utils.NewTokenCodec([]byte(cfg.JWTSecret), cfg.AccessTTL, utils.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		return err
	}
	svc, err := service.NewAuthService(store, codec, service.Options{
		BcryptCost: cfg.BcryptCost,
		Events:     events,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	e := router.New(handler.NewAuthHandler(svc, log, cfg.RequestTimeout), svc, log)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return e.Shutdown(shutdownCtx)
}

// background tracks goroutines that must finish before the process exits.
type background struct {
	wg sync.WaitGroup
}

// goRun runs fn in a goroutine. A non-cancellation error is logged.
func (b *background) goRun(ctx context.Context, log logging.Logger, name string, fn func(context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, name+" stopped", "err", err)
		}
	}()
}

// wait blocks until every goroutine started by goRun has returned.
func (b *background) wait() { b.wg.Wait() }

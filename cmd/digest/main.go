package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"p2p_estate/internal/adapters/notify"
	"p2p_estate/internal/adapters/observability"
	redisad "p2p_estate/internal/adapters/redis"
	"p2p_estate/internal/app"
	"p2p_estate/internal/domain"
	"p2p_estate/internal/shared"
	mysqlrepo "p2p_estate/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	// 2) digest and advisor counters, scrapeable while the job runs
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("workers", cfg.DigestWorkers).
		Bool("notify", cfg.NotifyURL != "").
		Msg("digest starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	sentLog := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := sentLog.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid add-on catalog")
	}

	var notifier domain.Notifier = notify.Discard{}
	if cfg.NotifyURL != "" {
		c, err := notify.New(cfg.NotifyURL, cfg.NotifyRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize notify client")
		}
		notifier = c
	}

	dash := app.NewDashboardService(repo, catalog)
	rep, err := app.NewDigestService(repo, dash, notifier, sentLog, cfg.DigestWorkers, cfg.DigestRepeat).Run(ctx, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("digest aborted")
	}
	log.Info().
		Int("sellers", rep.Sellers).
		Int("sent", rep.Sent).
		Int("empty", rep.Empty).
		Int("unchanged", rep.Unchanged).
		Int("failed", rep.Failed).
		Msg("digest completed")
}

package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	chttp "github.com/radieske/coinflip-casino-poc/internal/casino-service/http"
	kpub "github.com/radieske/coinflip-casino-poc/internal/casino-service/producer"
	"github.com/radieske/coinflip-casino-poc/internal/game"
	"github.com/radieske/coinflip-casino-poc/internal/ledger"
	"github.com/radieske/coinflip-casino-poc/internal/shared/cache"
	"github.com/radieske/coinflip-casino-poc/internal/shared/config"
	"github.com/radieske/coinflip-casino-poc/internal/shared/db"
	skafka "github.com/radieske/coinflip-casino-poc/internal/shared/kafka"
	"github.com/radieske/coinflip-casino-poc/internal/shared/logger"
	"github.com/radieske/coinflip-casino-poc/internal/shared/metrics"
	"github.com/radieske/coinflip-casino-poc/internal/withdrawal"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("casino-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Postgres: contas, journal, rodadas e pedidos de saque
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: contador global de jogadas por valor de aposta
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Kafka writer (topic game_played)
	gameWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicGamePlayed)
	defer gameWriter.Close()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("load timezone", zap.String("tz", cfg.Timezone), zap.Error(err))
	}

	// Core
	journal := ledger.NewJournal(pg, log)
	book := ledger.NewLedger(pg, journal, cfg.StartingBalanceCents)
	engine := game.NewEngine(pg, log, book, journal,
		game.NewRedisCounter(rdb),
		kpub.NewKafkaPublisher(gameWriter, cfg.TopicGamePlayed),
		cfg.MinStakeCents, cfg.WinEvery)
	withdrawals := withdrawal.NewService(pg, log, book, journal, nil, cfg.MinWithdrawalCents, loc)

	api := chttp.NewServer(log, engine, book, withdrawals)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	// Servidor de métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}

package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	ahttp "github.com/radieske/coinflip-casino-poc/internal/admin-service/http"
	kpub "github.com/radieske/coinflip-casino-poc/internal/admin-service/producer"
	"github.com/radieske/coinflip-casino-poc/internal/game"
	"github.com/radieske/coinflip-casino-poc/internal/ledger"
	"github.com/radieske/coinflip-casino-poc/internal/shared/config"
	"github.com/radieske/coinflip-casino-poc/internal/shared/db"
	skafka "github.com/radieske/coinflip-casino-poc/internal/shared/kafka"
	"github.com/radieske/coinflip-casino-poc/internal/shared/logger"
	"github.com/radieske/coinflip-casino-poc/internal/shared/metrics"
	"github.com/radieske/coinflip-casino-poc/internal/withdrawal"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("admin-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic withdrawal_decided)
	decidedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWithdrawalDecided)
	defer decidedWriter.Close()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("load timezone", zap.String("tz", cfg.Timezone), zap.Error(err))
	}

	// Core: o admin-service decide saques e lê agregados; o motor de jogo
	// entra só pelas estatísticas, então dispensa contador e publisher.
	journal := ledger.NewJournal(pg, log)
	book := ledger.NewLedger(pg, journal, cfg.StartingBalanceCents)
	engine := game.NewEngine(pg, log, book, journal, nil, nil, cfg.MinStakeCents, cfg.WinEvery)
	withdrawals := withdrawal.NewService(pg, log, book, journal,
		kpub.NewKafkaPublisher(decidedWriter, cfg.TopicWithdrawalDecided),
		cfg.MinWithdrawalCents, loc)

	api := ahttp.NewServer(log, withdrawals, engine, journal, book)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}

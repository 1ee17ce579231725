package main

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/coinflip-casino-poc/internal/reconciliation"
	"github.com/radieske/coinflip-casino-poc/internal/shared/config"
	"github.com/radieske/coinflip-casino-poc/internal/shared/db"
	"github.com/radieske/coinflip-casino-poc/internal/shared/kafka"
	"github.com/radieske/coinflip-casino-poc/internal/shared/logger"
	"github.com/radieske/coinflip-casino-poc/internal/shared/metrics"
)

// accountRef é o mínimo que o worker precisa extrair de qualquer evento
// que afete saldo.
type accountRef struct {
	AccountID string `json:"account_id"`
}

func main() {
	cfg := config.Load()

	log, err := logger.New("reconciliation-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	checker := reconciliation.NewChecker(pg, log)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	log.Info("reconciliation-worker started",
		zap.String("consume", cfg.TopicGamePlayed+","+cfg.TopicWithdrawalDecided),
	)

	ctx := context.Background()

	// Um reader por tópico; cada evento dispara a reconferência da conta.
	go consume(ctx, log, checker, cfg.KafkaBrokers, cfg.TopicGamePlayed, cfg.TopicGamePlayedDLQ)
	consume(ctx, log, checker, cfg.KafkaBrokers, cfg.TopicWithdrawalDecided, cfg.TopicWithdrawalDecidedDLQ)
}

func consume(ctx context.Context, log *zap.Logger, checker *reconciliation.Checker,
	brokers, topic, dlqTopic string) {
	reader := kafka.NewReader(brokers, topic, "reconciliation")
	defer reader.Close()

	var dlqWriter *kafkago.Writer
	if dlqTopic != "" {
		dlqWriter = kafka.NewWriter(brokers, dlqTopic)
		defer dlqWriter.Close()
	}

	for {
		key, value, err := kafka.ReadNext(ctx, reader)
		if err != nil {
			log.Warn("kafka read", zap.String("topic", topic), zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var ref accountRef
		if jerr := json.Unmarshal(value, &ref); jerr != nil || ref.AccountID == "" {
			log.Error("unmarshal event", zap.String("topic", topic), zap.Error(jerr))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, string(key), value)
			}
			continue
		}

		if _, err := checker.CheckAccount(ctx, ref.AccountID); err != nil {
			log.Error("check account", zap.String("accountId", ref.AccountID), zap.Error(err))
			// Backoff simples para evitar flood em caso de erro de infra
			time.Sleep(500 * time.Millisecond)
		}
	}
}

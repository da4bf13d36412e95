package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/clubgames/olympiad/internal/audit-worker/consumer"
	"github.com/clubgames/olympiad/internal/audit-worker/repository"
	"github.com/clubgames/olympiad/internal/shared/config"
	"github.com/clubgames/olympiad/internal/shared/db"
	sharedkafka "github.com/clubgames/olympiad/internal/shared/kafka"
	"github.com/clubgames/olympiad/internal/shared/logger"
	"github.com/clubgames/olympiad/internal/shared/metrics"
	"github.com/clubgames/olympiad/pkg/contracts/topics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("audit-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres (tabela audit_log)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	repo := repository.NewPostgresRepo(pg)

	// Um reader por tópico, mesmo consumer group
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	wagerReader := sharedkafka.NewReader(brokers, cfg.TopicWagerPlaced, "audit-worker")
	defer wagerReader.Close()
	adjustReader := sharedkafka.NewReader(brokers, cfg.TopicBalanceAdjusted, "audit-worker")
	defer adjustReader.Close()

	// DLQs para mensagens que falham na persistência
	wagerDLQ := sharedkafka.NewWriter(cfg.KafkaBrokers, topics.WagerPlacedDLQ)
	defer wagerDLQ.Close()
	adjustDLQ := sharedkafka.NewWriter(cfg.KafkaBrokers, topics.BalanceAdjustedDLQ)
	defer adjustDLQ.Close()

	// Métricas Prometheus da trilha de auditoria
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "audit_messages_consumed_total", Help: "mensagens consumidas"}, []string{"topic"})
	persisted := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "audit_entries_persisted_total", Help: "entradas gravadas"}, []string{"topic"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "audit_errors_total", Help: "erros por estágio"}, []string{"topic", "stage"})
	prometheus.MustRegister(consumed, persisted, errorsBy)

	wagerErrs := func(stage string) { errorsBy.WithLabelValues(cfg.TopicWagerPlaced, stage).Inc() }
	adjustErrs := func(stage string) { errorsBy.WithLabelValues(cfg.TopicBalanceAdjusted, stage).Inc() }

	wagerRec := &consumer.Recorder{
		Log:        log,
		Reader:     wagerReader,
		Handle:     consumer.WagerPlacedHandler(log, repo, wagerErrs),
		DLQ:        wagerDLQ,
		OnConsumed: func() { consumed.WithLabelValues(cfg.TopicWagerPlaced).Inc() },
		OnPersist:  func() { persisted.WithLabelValues(cfg.TopicWagerPlaced).Inc() },
		OnError:    wagerErrs,
	}
	adjustRec := &consumer.Recorder{
		Log:        log,
		Reader:     adjustReader,
		Handle:     consumer.BalanceAdjustedHandler(log, repo, adjustErrs),
		DLQ:        adjustDLQ,
		OnConsumed: func() { consumed.WithLabelValues(cfg.TopicBalanceAdjusted).Inc() },
		OnPersist:  func() { persisted.WithLabelValues(cfg.TopicBalanceAdjusted).Inc() },
		OnError:    adjustErrs,
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	done := make(chan error, 2)
	go func() { done <- wagerRec.Run(ctx) }()
	go func() { done <- adjustRec.Run(ctx) }()

	log.Info("audit-worker started")
	err = <-done
	cancel()
	<-done
	if err != nil && ctx.Err() == nil {
		log.Fatal("recorder stopped with error", zap.Error(err))
	}
	log.Info("audit-worker stopped")
}

package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	lcache "github.com/clubgames/olympiad/internal/ledger-service/cache"
	lhttp "github.com/clubgames/olympiad/internal/ledger-service/http"
	kpub "github.com/clubgames/olympiad/internal/ledger-service/producer"
	"github.com/clubgames/olympiad/internal/ledger-service/repo"
	sharedcache "github.com/clubgames/olympiad/internal/shared/cache"
	"github.com/clubgames/olympiad/internal/shared/config"
	"github.com/clubgames/olympiad/internal/shared/db"
	sharedkafka "github.com/clubgames/olympiad/internal/shared/kafka"
	"github.com/clubgames/olympiad/internal/shared/logger"
	"github.com/clubgames/olympiad/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("ledger-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis (cache da janela apostável)
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writers (tópicos de auditoria)
	wagerWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerPlaced)
	defer wagerWriter.Close()
	adjustWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBalanceAdjusted)
	defer adjustWriter.Close()

	// deps
	repository := repo.NewPostgres(pg)
	windowCache := lcache.New(rdb)
	publ := kpub.NewKafkaPublisher(wagerWriter, adjustWriter)

	// Métricas Prometheus do ledger
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "ledger_wagers_placed_total", Help: "apostas registradas"}, []string{"kind"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "ledger_wagers_rejected_total", Help: "apostas rejeitadas por motivo"}, []string{"reason"})
	adjustments := prometheus.NewCounter(prometheus.CounterOpts{Name: "ledger_balance_adjustments_total", Help: "correções manuais de saldo"})
	prometheus.MustRegister(placed, rejected, adjustments)

	// HTTP público
	api := lhttp.NewServer(log, repository, windowCache, publ, cfg.AdminSignupCode)
	api.OnWagerPlaced = func(kind string) { placed.WithLabelValues(kind).Inc() }
	api.OnWagerRejected = func(reason string) { rejected.WithLabelValues(reason).Inc() }
	api.OnAdjustment = func() { adjustments.Inc() }

	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	// metrics/health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	log.Info("ledger-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}

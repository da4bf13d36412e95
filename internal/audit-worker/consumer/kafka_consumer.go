package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/clubgames/olympiad/internal/audit-worker/repository"
	"github.com/clubgames/olympiad/pkg/contracts/events"
)

// Recorder consome um tópico de auditoria do Kafka e persiste cada
// mensagem na trilha. Decode e persistência são injetados por tópico;
// callbacks de métricas acompanham cada etapa. Mensagem que falha na
// persistência vai pra DLQ quando houver writer configurado.
type Recorder struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	Handle func(ctx context.Context, value []byte) error
	DLQ    *kafka.Writer

	OnConsumed func()       // métricas (counter++)
	OnPersist  func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo do tópico
func (r *Recorder) Run(ctx context.Context) error {
	for {
		m, err := r.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			r.Log.Warn("kafka read failed", zap.Error(err))
			if r.OnError != nil {
				r.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if r.OnConsumed != nil {
			r.OnConsumed()
		}

		if err := r.Handle(ctx, m.Value); err != nil {
			r.Log.Warn("audit persist failed", zap.Error(err))
			if r.OnError != nil {
				r.OnError("persist")
			}
			r.toDLQ(ctx, m)
			continue
		}
		if r.OnPersist != nil {
			r.OnPersist()
		}
	}
}

func (r *Recorder) toDLQ(ctx context.Context, m kafka.Message) {
	if r.DLQ == nil {
		return
	}
	if err := r.DLQ.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: m.Value}); err != nil {
		r.Log.Warn("dlq write failed", zap.Error(err))
		if r.OnError != nil {
			r.OnError("dlq")
		}
	}
}

// WagerPlacedHandler decodifica e grava eventos de aposta colocada
func WagerPlacedHandler(log *zap.Logger, repo *repository.PostgresRepo, onError func(string)) func(context.Context, []byte) error {
	return func(ctx context.Context, value []byte) error {
		var ev events.WagerPlaced
		if err := json.Unmarshal(value, &ev); err != nil {
			log.Warn("invalid wager_placed message", zap.Error(err))
			if onError != nil {
				onError("decode")
			}
			return nil // mensagem malformada não volta pra fila
		}
		return repo.InsertWagerPlaced(ctx, ev)
	}
}

// BalanceAdjustedHandler decodifica e grava correções manuais de saldo
func BalanceAdjustedHandler(log *zap.Logger, repo *repository.PostgresRepo, onError func(string)) func(context.Context, []byte) error {
	return func(ctx context.Context, value []byte) error {
		var ev events.BalanceAdjusted
		if err := json.Unmarshal(value, &ev); err != nil {
			log.Warn("invalid balance_adjusted message", zap.Error(err))
			if onError != nil {
				onError("decode")
			}
			return nil
		}
		return repo.InsertBalanceAdjusted(ctx, ev)
	}
}

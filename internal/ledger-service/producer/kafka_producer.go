package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/clubgames/olympiad/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de auditoria do ledger.
// Cada tópico tem seu próprio writer.
type KafkaPublisher struct {
	WagerWriter  *kafka.Writer
	AdjustWriter *kafka.Writer
}

func NewKafkaPublisher(wagerW, adjustW *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{WagerWriter: wagerW, AdjustWriter: adjustW}
}

func (p *KafkaPublisher) PublishWagerPlaced(ctx context.Context, e events.WagerPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.WagerWriter.WriteMessages(ctx, kafka.Message{Value: b})
}

func (p *KafkaPublisher) PublishBalanceAdjusted(ctx context.Context, e events.BalanceAdjusted) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.AdjustWriter.WriteMessages(ctx, kafka.Message{Value: b})
}

package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	skafka "github.com/msmmarket/matka-admin-platform/internal/shared/kafka"
	"github.com/msmmarket/matka-admin-platform/pkg/contracts/events"
)

// KafkaPublisher publica eventos result_declared para o settlement-worker.
// O tópico é o do Writer; a chave é o resultId, mantendo as declarações e
// emendas do mesmo resultado na mesma partição.
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

func (p *KafkaPublisher) PublishResultDeclared(ctx context.Context, e events.ResultDeclared) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.Writer, e.ResultID, b)
}

package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/msmmarket/matka-admin-platform/internal/settlement-worker/engine"
	skafka "github.com/msmmarket/matka-admin-platform/internal/shared/kafka"
	"github.com/msmmarket/matka-admin-platform/pkg/contracts/events"
)

// MessageReader é satisfeito por *kafka.Reader.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Repo define as operações de banco usadas na liquidação.
type Repo interface {
	PendingBets(ctx context.Context, marketName, resultDate string) ([]engine.Bet, error)
	SettleBet(ctx context.Context, betID, resultID, userID string, out engine.Outcome, payoutPaise int64) (bool, error)
}

// ActivityPublisher registra o resumo da liquidação no feed administrativo.
type ActivityPublisher interface {
	Publish(ctx context.Context, kind, message, ref string) error
}

// Summary acumula o desfecho de uma rodada de liquidação.
type Summary struct {
	Won         int
	Lost        int
	Skipped     int
	PayoutPaise int64
}

// Processor consome eventos result_declared, avalia cada aposta pendente do
// mercado/data e aplica a liquidação idempotente por aposta.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log     *zap.Logger
	Reader  MessageReader
	Repo    Repo
	Payouts engine.PayoutTable

	SettledWriter *kafka.Writer // publica bet_settled
	DLQWriter     *kafka.Writer // mensagens indecifráveis
	Activity      ActivityPublisher

	OnConsumed func()       // métricas (counter++)
	OnSettled  func(string) // métricas por desfecho (win/loss/skip)
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e liquidação.
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var ev events.ResultDeclared
		if err := json.Unmarshal(m.Value, &ev); err != nil || ev.ResultID == "" {
			p.Log.Warn("invalid result_declared message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			p.deadLetter(ctx, m)
			continue
		}

		sum, err := p.SettleResult(ctx, ev)
		if err != nil {
			p.Log.Error("settle result", zap.String("resultId", ev.ResultID), zap.Error(err))
			if p.OnError != nil {
				p.OnError("settle")
			}
			// apostas já liquidadas têm marcador; uma nova declaração/reentrega
			// retoma só as que faltam
			continue
		}

		p.Log.Info("result settled",
			zap.String("resultId", ev.ResultID),
			zap.String("market", ev.MarketName),
			zap.Int("won", sum.Won),
			zap.Int("lost", sum.Lost),
			zap.Int("skipped", sum.Skipped),
			zap.Int64("payoutPaise", sum.PayoutPaise),
		)

		p.publishSettled(ctx, ev, sum)
	}
}

// SettleResult avalia e liquida todas as apostas pendentes do resultado.
// Erro numa aposta não bloqueia as demais; as que falharam continuam
// pendentes e sem marcador, prontas para a próxima tentativa.
func (p *Processor) SettleResult(ctx context.Context, ev events.ResultDeclared) (Summary, error) {
	var sum Summary

	bets, err := p.Repo.PendingBets(ctx, ev.MarketName, ev.ResultDate)
	if err != nil {
		return sum, fmt.Errorf("load pending bets: %w", err)
	}

	var failed int
	for _, b := range bets {
		out, payout := engine.Evaluate(b, ev.OpenResult, ev.CloseResult, p.Payouts)
		if out == engine.OutcomeSkip {
			sum.Skipped++
			if p.OnSettled != nil {
				p.OnSettled("skip")
			}
			continue
		}

		applied, err := p.Repo.SettleBet(ctx, b.ID, ev.ResultID, b.UserID, out, payout)
		if err != nil {
			p.Log.Warn("settle bet", zap.String("betId", b.ID), zap.Error(err))
			failed++
			continue
		}
		if !applied {
			continue // já liquidada por entrega anterior
		}

		switch out {
		case engine.OutcomeWin:
			sum.Won++
			sum.PayoutPaise += payout
		case engine.OutcomeLoss:
			sum.Lost++
		}
		if p.OnSettled != nil {
			p.OnSettled(string(out))
		}
	}

	if failed > 0 {
		return sum, fmt.Errorf("%d bet(s) failed to settle", failed)
	}
	return sum, nil
}

// publishSettled emite o evento bet_settled e a atividade do dashboard.
func (p *Processor) publishSettled(ctx context.Context, ev events.ResultDeclared, sum Summary) {
	if p.SettledWriter != nil {
		out := events.BetSettled{
			ResultID:    ev.ResultID,
			MarketName:  ev.MarketName,
			ResultDate:  ev.ResultDate,
			BetsWon:     sum.Won,
			BetsLost:    sum.Lost,
			BetsSkipped: sum.Skipped,
			PayoutPaise: sum.PayoutPaise,
			Ts:          time.Now(),
		}
		b, _ := json.Marshal(out)
		if err := skafka.WriteJSON(ctx, p.SettledWriter, ev.ResultID, b); err != nil {
			p.Log.Warn("publish bet_settled", zap.Error(err))
			if p.OnError != nil {
				p.OnError("publish")
			}
		}
	}

	if p.Activity != nil {
		msg := fmt.Sprintf("Settled %d bet(s) for %s", sum.Won+sum.Lost, ev.MarketName)
		if err := p.Activity.Publish(ctx, events.ActivitySettlement, msg, ev.ResultID); err != nil {
			p.Log.Warn("activity publish", zap.Error(err))
		}
	}
}

// deadLetter envia a mensagem original para a DLQ, preservando chave e payload.
func (p *Processor) deadLetter(ctx context.Context, m kafka.Message) {
	if p.DLQWriter == nil {
		return
	}
	if err := skafka.WriteJSON(ctx, p.DLQWriter, string(m.Key), m.Value); err != nil {
		p.Log.Error("dlq write", zap.Error(err))
		if p.OnError != nil {
			p.OnError("dlq")
		}
	}
}

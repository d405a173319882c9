package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msmmarket/matka-admin-platform/pkg/contracts/events"
)

// quantas atividades ficam na lista "recentes" do dashboard
const recentCap = 100

const recentKey = "admin:activity:recent"

// Publisher registra atividades administrativas em dois lugares:
// Pub/Sub (feed ao vivo via activity-feed) e uma lista capada no Redis
// (bloco "Recent Activities" do dashboard).
type Publisher struct {
	R       *redis.Client
	Channel string
}

func NewPublisher(r *redis.Client, channel string) *Publisher {
	return &Publisher{R: r, Channel: channel}
}

// Publish envia a atividade para o canal e para a lista de recentes.
// Falha aqui não derruba o fluxo chamador; o chamador decide só logar.
func (p *Publisher) Publish(ctx context.Context, kind, message, ref string) error {
	ev := events.Activity{Kind: kind, Message: message, Ref: ref, Ts: time.Now()}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pipe := p.R.Pipeline()
	pipe.Publish(ctx, p.Channel, b)
	pipe.LPush(ctx, recentKey, b)
	pipe.LTrim(ctx, recentKey, 0, recentCap-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent retorna as últimas n atividades registradas.
func (p *Publisher) Recent(ctx context.Context, n int64) ([]events.Activity, error) {
	raw, err := p.R.LRange(ctx, recentKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]events.Activity, 0, len(raw))
	for _, item := range raw {
		var ev events.Activity
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

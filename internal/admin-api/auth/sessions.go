package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const RoleAdmin = "admin"

var ErrSessionNotFound = errors.New("session not found")

// Session é a sessão autenticada de um operador do console.
// O papel (role) viaja na sessão e é checado na borda dos fluxos,
// nunca na camada de apresentação.
type Session struct {
	AdminID string `json:"admin_id"`
	Role    string `json:"role"`
}

// Store guarda sessões no Redis com TTL na própria chave.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func NewStore(r *redis.Client, ttl time.Duration) *Store {
	return &Store{R: r, TTL: ttl}
}

func key(token string) string { return "admin:session:" + token }

// Create emite um token opaco para a sessão informada. Usado por ferramentas
// de provisionamento e testes; o bootstrapping de login fica fora deste serviço.
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	token := uuid.NewString()
	b, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.R.Set(ctx, key(token), b, s.TTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get resolve um token para a sessão correspondente.
func (s *Store) Get(ctx context.Context, token string) (Session, error) {
	b, err := s.R.Get(ctx, key(token)).Bytes()
	if err == redis.Nil {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

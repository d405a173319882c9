package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/msmmarket/matka-admin-platform/pkg/contracts/events"
)

// client embrulha a conexão com um mutex de escrita: o pong sai da goroutine
// de leitura da conexão e o Broadcast sai da goroutine do assinante Redis,
// e o gorilla/websocket não tolera escritores concorrentes na mesma conexão.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub gerencia conexões WebSocket de dashboards administrativos.
// subs: mapeia o tipo de atividade (payment/payout/result/settlement)
// para o conjunto de clientes inscritos; "*" recebe tudo.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// kind -> set of clients
	subs map[string]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe por tipo de atividade e responde a pings
// Conexão nova entra automaticamente no feed completo ("*")
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	h.subscribe("*", c)

	pong, _ := json.Marshal(map[string]string{"type": "pong"})
	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.subscribe(msg.Kind, c)
		case "unsubscribe":
			h.mu.Lock()
			if m, ok := h.subs[msg.Kind]; ok {
				delete(m, c)
				if len(m) == 0 {
					delete(h.subs, msg.Kind)
				}
			}
			h.mu.Unlock()
		case "ping":
			_ = c.send(pong)
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, c)
	}
	h.mu.Unlock()
}

func (h *Hub) subscribe(kind string, c *client) {
	h.mu.Lock()
	if _, ok := h.subs[kind]; !ok {
		h.subs[kind] = make(map[*client]struct{})
	}
	h.subs[kind][c] = struct{}{}
	h.mu.Unlock()
}

// Broadcast envia uma atividade para os inscritos no tipo e no feed completo.
func (h *Hub) Broadcast(ev events.Activity) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.subs[ev.Kind])+len(h.subs["*"]))
	for c := range h.subs[ev.Kind] {
		clients = append(clients, c)
	}
	for c := range h.subs["*"] {
		if _, dup := h.subs[ev.Kind][c]; !dup {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	b, _ := json.Marshal(ev)
	for _, c := range clients {
		_ = c.send(b)
	}
}

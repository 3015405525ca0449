package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/shared/auth"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// ClientMsg representa uma mensagem recebida do cliente WebSocket (só ping)
type ClientMsg struct {
	Type string `json:"type"`
}

// client serializa as escritas: o gorilla não aceita writers concorrentes
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub mantém as conexões WebSocket por usuário autenticado
// users: mapeia userID para o conjunto de conexões abertas
type Hub struct {
	upgrader websocket.Upgrader
	tokens   TokenParser
	log      *zap.Logger

	mu    sync.RWMutex
	users map[int64]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(tokens TokenParser, allowOrigin func(r *http.Request) bool, log *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		tokens:   tokens,
		log:      log,
		users:    make(map[int64]map[*client]struct{}),
	}
}

// HandleWS autentica pelo ?token= (ou bearer) antes do upgrade e mantém a
// conexão registrada para o usuário até o cliente desconectar
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	id, err := h.tokens.Parse(token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	h.add(id.UserID, c)
	defer h.remove(id.UserID, c)
	h.log.Debug("ws connected", zap.Int64("user_id", id.UserID))

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if msg.Type == "ping" {
			_ = c.write([]byte(`{"type":"pong"}`))
		}
	}
	h.log.Debug("ws disconnected", zap.Int64("user_id", id.UserID))
}

func (h *Hub) add(userID int64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[*client]struct{})
	}
	h.users[userID][c] = struct{}{}
}

func (h *Hub) remove(userID int64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.users[userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.users, userID)
		}
	}
}

// Connected retorna quantas conexões o usuário tem abertas
func (h *Hub) Connected(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Send entrega a notificação só às conexões do dono; retorna quantas receberam
func (h *Hub) Send(n events.Notification) int {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.users[n.UserID]))
	for c := range h.users[n.UserID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return 0
	}

	b, _ := json.Marshal(n)
	sent := 0
	for _, c := range targets {
		if err := c.write(b); err != nil {
			h.log.Debug("ws write failed", zap.Int64("user_id", n.UserID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

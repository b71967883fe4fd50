package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 256
)

// Message là envelope chung cho mọi message gửi qua websocket
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
}

type Stats struct {
	Users       int `json:"users"`
	Connections int `json:"connections"`
}

// Hub giữ các kết nối theo identity; một user có thể mở nhiều tab
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[*Client]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{users: make(map[string]map[*Client]struct{}), log: log}
}

// RegisterUser thêm kết nối và chạy write pump
func (h *Hub) RegisterUser(identityID string, conn *websocket.Conn) *Client {
	client := &Client{conn: conn, send: make(chan []byte, sendBufferSize)}

	h.mu.Lock()
	if _, ok := h.users[identityID]; !ok {
		h.users[identityID] = make(map[*Client]struct{})
	}
	h.users[identityID][client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	return client
}

func (h *Hub) UnregisterUser(identityID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.users[identityID]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		close(client.send)
		delete(clients, client)
	}
	if len(clients) == 0 {
		delete(h.users, identityID)
	}
}

// SendToUser gửi tới mọi kết nối của user, client đầy buffer thì bỏ qua message
func (h *Hub) SendToUser(identityID string, msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("ws marshal failed", zap.String("type", msg.Type), zap.Error(err))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for client := range h.users[identityID] {
		select {
		case client.send <- data:
			sent++
		default:
			h.log.Warn("ws send buffer full, dropping message",
				zap.String("identity_id", identityID), zap.String("type", msg.Type))
		}
	}
	return sent
}

// sendToClient chỉ gọi khi client chưa bị unregister
func (h *Hub) sendToClient(client *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
	}
}

func (h *Hub) GetStats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	stats := Stats{Users: len(h.users)}
	for _, clients := range h.users {
		stats.Connections += len(clients)
	}
	return stats
}

// writePump là goroutine duy nhất ghi vào conn
func (h *Hub) writePump(client *Client) {
	defer client.conn.Close()
	for msg := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

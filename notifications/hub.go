// Package notifications раздаёт события партидов подключённым пользователям
// через WebSocket. Каждый пользователь — отдельная комната, так что события
// доставляются только затронутым участникам.
package notifications

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Типы событий, которые получает клиент.
const (
	EventMatchStatusChanged = "PARTIDO_ACTUALIZADO"
	EventPlayerJoined       = "JUGADOR_UNIDO"
	EventPlayerLeft         = "JUGADOR_SALIO"
	EventMatchInvitation    = "INVITACION_PARTIDO"
)

// Event — сообщение, уходящее в сокет пользователя.
type Event struct {
	Type    string      `json:"type"`
	MatchID string      `json:"partidoId,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client — одно WebSocket-соединение пользователя. У пользователя может быть
// несколько соединений (несколько вкладок), все в одной комнате.
type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	UserID   string
	isClosed bool
	mu       sync.Mutex
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.UserID]; !ok {
				h.rooms[client.UserID] = make(map[*Client]bool)
			}
			h.rooms[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.UserID]; ok {
				if _, okClient := clients[client]; okClient {
					client.mu.Lock()
					if !client.isClosed {
						close(client.Send)
						client.isClosed = true
					}
					client.mu.Unlock()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.UserID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyUser отправляет событие всем соединениям пользователя.
// Пользователь без активных соединений просто не получает событие.
func (h *Hub) NotifyUser(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[userID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("notifications: failed to marshal event for user %s: %v", userID, err)
		return
	}

	for client := range clients {
		client.mu.Lock()
		if client.isClosed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			// Канал клиента переполнен: событие пропускается, соединение
			// закроет write pump при следующей ошибке записи.
		}
		client.mu.Unlock()
	}
}

// NotifyUsers отправляет одно событие нескольким пользователям.
func (h *Hub) NotifyUsers(userIDs []string, event Event) {
	for _, id := range userIDs {
		h.NotifyUser(id, event)
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		// Клиент ничего не шлёт по этому сокету; читаем только ради
		// обработки close и pong фреймов.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("notifications: unexpected close for user %s: %v", c.UserID, err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Сливаем накопившиеся события в тот же фрейм.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

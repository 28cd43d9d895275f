package live

import (
	"encoding/json"
	"sync"
	"time"

	"hospital-portal/pkg/metrics"

	"github.com/google/uuid"
	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	sendBufferSize = 16
	pingPeriod     = 30 * time.Second
)

// Message is what a live client receives: the full current view of its topic.
type Message struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

const (
	MessageTypeView  = "view"
	MessageTypeError = "error"
)

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one connected socket bound to a single server-assigned topic.
type Client struct {
	ID    string
	Topic string
	Send  chan []byte
	conn  Conn
}

// Hub tracks live clients by topic.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	all     map[*Client]struct{}
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewHub(log *logrus.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		log:     log,
		metrics: m,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}
	if h.clients[client.Topic] == nil {
		h.clients[client.Topic] = make(map[*Client]struct{})
	}
	h.clients[client.Topic][client] = struct{}{}
	h.metrics.LiveClients.Inc()
}

// Unregister removes the client and closes its Send channel. Calling it twice is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	if subscribers, ok := h.clients[client.Topic]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.clients, client.Topic)
		}
	}
	delete(h.all, client)
	close(client.Send)
	h.metrics.LiveClients.Dec()
}

// Broadcast queues msg for every client of topic and reports how many received it.
// Clients with a full buffer are skipped.
func (h *Hub) Broadcast(topic string, msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warnf("Failed to marshal live message: %+v", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.clients[topic] {
		select {
		case client.Send <- data:
			delivered++
		default:
			h.log.WithField("client", client.ID).Debug("Live client buffer full, skipping")
		}
	}
	if delivered > 0 {
		h.metrics.LiveBroadcasts.WithLabelValues(topicKind(topic)).Inc()
	}
	return delivered
}

// Topics returns the topics that currently have at least one client.
func (h *Hub) Topics() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	topics := make([]string, 0, len(h.clients))
	for topic := range h.clients {
		topics = append(topics, topic)
	}
	return topics
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// Attach registers a connection on topic, queues the initial view and
// starts its pumps. The client is unregistered when the peer goes away.
func (h *Hub) Attach(conn Conn, topic string, initial *Message) *Client {
	client := &Client{
		ID:    uuid.New().String(),
		Topic: topic,
		Send:  make(chan []byte, sendBufferSize),
		conn:  conn,
	}

	if initial != nil {
		if data, err := json.Marshal(initial); err == nil {
			client.Send <- data
		}
	}

	h.Register(client)

	go h.writePump(client)
	go h.readPump(client)

	return client
}

// readPump only drains the socket. Clients cannot change their topic.
func (h *Hub) readPump(client *Client) {
	defer func() {
		h.Unregister(client)
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				client.conn.WriteMessage(gorillawebsocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(gorillawebsocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.conn.WriteMessage(gorillawebsocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

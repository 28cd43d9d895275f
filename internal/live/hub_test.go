package live

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"hospital-portal/pkg/metrics"

	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	written chan []byte
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{written: make(chan []byte, 16), closed: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, io.EOF
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-c.closed:
		return errors.New("closed")
	default:
	}
	if messageType == gorillawebsocket.TextMessage {
		c.written <- data
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func newTestHub() (*Hub, *metrics.Metrics) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := metrics.NewNop()
	return NewHub(log, m), m
}

func newClient(topic string, buffer int) *Client {
	return &Client{ID: topic + "-client", Topic: topic, Send: make(chan []byte, buffer)}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub, m := newTestHub()
	client := newClient(TopicAdmin, 1)

	hub.Register(client)
	assert.Equal(t, 1, hub.ClientCount())
	assert.Equal(t, 1, hub.TopicCount(TopicAdmin))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LiveClients))

	hub.Unregister(client)
	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.TopicCount(TopicAdmin))
	assert.Empty(t, hub.Topics())
	assert.Equal(t, float64(0), testutil.ToFloat64(m.LiveClients))

	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_BroadcastOnlyReachesTopic(t *testing.T) {
	hub, _ := newTestHub()
	admin := newClient(TopicAdmin, 1)
	patient := newClient("patient:1", 1)
	hub.Register(admin)
	hub.Register(patient)

	delivered := hub.Broadcast(TopicAdmin, Message{Type: MessageTypeView, Topic: TopicAdmin})

	assert.Equal(t, 1, delivered)
	require.Len(t, admin.Send, 1)
	assert.Len(t, patient.Send, 0)

	var msg Message
	require.NoError(t, json.Unmarshal(<-admin.Send, &msg))
	assert.Equal(t, TopicAdmin, msg.Topic)
}

func TestHub_BroadcastSkipsSlowClient(t *testing.T) {
	hub, _ := newTestHub()
	slow := newClient(TopicAdmin, 1)
	hub.Register(slow)

	assert.Equal(t, 1, hub.Broadcast(TopicAdmin, Message{Type: MessageTypeView}))
	assert.Equal(t, 0, hub.Broadcast(TopicAdmin, Message{Type: MessageTypeView}))
	assert.Len(t, slow.Send, 1)
}

func TestHub_AttachSendsInitialViewAndCleansUp(t *testing.T) {
	hub, _ := newTestHub()
	conn := newFakeConn()

	client := hub.Attach(conn, "doctor:42", &Message{Type: MessageTypeView, Topic: "doctor:42"})
	assert.Equal(t, "doctor:42", client.Topic)

	select {
	case data := <-conn.written:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, MessageTypeView, msg.Type)
	case <-time.After(time.Second):
		t.Fatal("initial view not written")
	}

	hub.Broadcast("doctor:42", Message{Type: MessageTypeView, Topic: "doctor:42"})
	select {
	case <-conn.written:
	case <-time.After(time.Second):
		t.Fatal("broadcast not written")
	}

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

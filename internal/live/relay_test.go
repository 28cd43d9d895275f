package live

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProjector struct {
	mock.Mock
}

func (m *MockProjector) Project(ctx context.Context, topic string) (interface{}, error) {
	args := m.Called(ctx, topic)
	return args.Get(0), args.Error(1)
}

func newTestBroker(t *testing.T) *RedisBroker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRedisBroker(client, "hospital:changes", log)
}

func TestRedisBroker_PublishSubscribe(t *testing.T) {
	broker := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := broker.Subscribe(ctx)
	require.NoError(t, err)

	doctor := uuid.New()
	require.NoError(t, broker.Publish(ctx, Change{Collection: CollectionAppointments, ID: "a1", DoctorID: &doctor}))

	select {
	case change := <-changes:
		assert.Equal(t, CollectionAppointments, change.Collection)
		assert.Equal(t, "a1", change.ID)
		require.NotNil(t, change.DoctorID)
		assert.Equal(t, doctor, *change.DoctorID)
		assert.Nil(t, change.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("change not received")
	}

	cancel()
	requireClosed(t, changes)
}

func requireClosed(t *testing.T, changes <-chan Change) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-changes:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("changes channel still open after cancel")
		}
	}
}

func TestRedisBroker_SubscribeClosesOnCancelWhileIdle(t *testing.T) {
	broker := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := broker.Subscribe(ctx)
	require.NoError(t, err)

	// no traffic: the receiver is parked on the connection
	time.Sleep(50 * time.Millisecond)
	cancel()
	requireClosed(t, changes)
}

func TestRedisBroker_SubscribeStopsWhenRedisGoesAway(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	log := logrus.New()
	log.SetOutput(io.Discard)
	broker := NewRedisBroker(client, "hospital:changes", log)

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := broker.Subscribe(ctx)
	require.NoError(t, err)

	mr.Close()
	time.Sleep(3 * receiveBackoff)
	cancel()
	requireClosed(t, changes)
}

func TestRelay_RefreshesAffectedTopics(t *testing.T) {
	broker := newTestBroker(t)
	hub, m := newTestHub()
	doctor := uuid.New()

	admin := newClient(TopicAdmin, 4)
	doc := newClient(DoctorTopic(doctor), 4)
	other := newClient(DoctorTopic(uuid.New()), 4)
	hub.Register(admin)
	hub.Register(doc)
	hub.Register(other)

	projector := &MockProjector{}
	projector.On("Project", mock.Anything, TopicAdmin).Return(map[string]int{"total": 3}, nil)
	projector.On("Project", mock.Anything, DoctorTopic(doctor)).Return(map[string]int{"total": 1}, nil)

	relay := NewRelay(broker, hub, projector, hub.log, m)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	// the subscription is confirmed before Run starts reading
	assert.Eventually(t, func() bool {
		_ = broker.Publish(ctx, Change{Collection: CollectionAppointments, ID: "a1", DoctorID: &doctor})
		return len(doc.Send) > 0
	}, 2*time.Second, 50*time.Millisecond)

	require.NotEmpty(t, admin.Send)
	assert.Len(t, other.Send, 0)

	var msg Message
	require.NoError(t, json.Unmarshal(<-doc.Send, &msg))
	assert.Equal(t, DoctorTopic(doctor), msg.Topic)
	assert.JSONEq(t, `{"total":1}`, string(msg.Data))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.ChangesReceived), float64(1))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestRelay_ProjectionFailureSkipsTopic(t *testing.T) {
	hub, m := newTestHub()
	admin := newClient(TopicAdmin, 1)
	hub.Register(admin)

	projector := &MockProjector{}
	projector.On("Project", mock.Anything, TopicAdmin).Return(nil, errors.New("db down"))

	relay := NewRelay(nil, hub, projector, hub.log, m)
	relay.Refresh(context.Background(), TopicAdmin, PatientTopic(uuid.New()))

	assert.Len(t, admin.Send, 0)
	projector.AssertNumberOfCalls(t, "Project", 1)
}

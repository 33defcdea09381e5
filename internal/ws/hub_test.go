package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"talent-match/internal/domain/insight"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_MatchComputedReachesSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	client := NewClient(hub, nil, 0)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.MatchComputed(insight.MatchView{
		Index:  insight.MatchingIndex{JobID: 42, ResumeID: 7, Overall: decimal.RequireFromString("0.8")},
		Job:    insight.JobRef{ID: 42, Title: "Backend Engineer"},
		Resume: insight.ResumeRef{ID: 7, CandidateName: "Jane Doe"},
	})

	select {
	case msg := <-client.send:
		var evt MatchComputedEvent
		require.NoError(t, json.Unmarshal(msg, &evt))
		assert.Equal(t, EventMatchComputed, evt.Type)
		assert.Equal(t, int64(42), evt.JobID)
		assert.Equal(t, int64(7), evt.ResumeID)
		assert.Equal(t, "0.80", evt.Overall)
		assert.Equal(t, "Jane Doe", evt.Candidate)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestHub_UnregisterClosesQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	client := NewClient(hub, nil, 0)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_NilIsSafe(t *testing.T) {
	var hub *Hub
	hub.MatchComputed(insight.MatchView{})
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_JobFilter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	watching := NewClient(hub, nil, 42)
	other := NewClient(hub, nil, 43)
	hub.Register(watching)
	hub.Register(other)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish(42, []byte("hit"))

	select {
	case msg := <-watching.send:
		assert.Equal(t, "hit", string(msg))
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	assert.Empty(t, other.send)
}

func TestHub_RunClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := NewClient(hub, nil, 0)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
	_, open := <-client.send
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestJobFilter(t *testing.T) {
	id, err := jobFilter("")
	require.NoError(t, err)
	assert.Zero(t, id)

	id, err = jobFilter("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = jobFilter("-1")
	assert.Error(t, err)
	_, err = jobFilter("abc")
	assert.Error(t, err)
}

type memBus struct {
	mu         sync.Mutex
	subs       []func([]byte)
	subscribed chan struct{}
	err        error
}

func newMemBus() *memBus {
	return &memBus{subscribed: make(chan struct{}, 1)}
}

func (b *memBus) Publish(_ context.Context, _ string, payload []byte) error {
	if b.err != nil {
		return b.err
	}
	b.mu.Lock()
	subs := append([]func([]byte){}, b.subs...)
	b.mu.Unlock()
	for _, fn := range subs {
		fn(payload)
	}
	return nil
}

func (b *memBus) Subscribe(ctx context.Context, _ string, fn func([]byte)) error {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
	b.subscribed <- struct{}{}
	<-ctx.Done()
	return ctx.Err()
}

func matchView(jobID, resumeID int64) insight.MatchView {
	return insight.MatchView{
		Index:  insight.MatchingIndex{JobID: jobID, ResumeID: resumeID, Overall: decimal.RequireFromString("0.2")},
		Resume: insight.ResumeRef{ID: resumeID, CandidateName: "Jane Doe"},
	}
}

func TestRelay_WorkerMatchReachesServerSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := newMemBus()
	quiet := log.New(io.Discard, "", 0)

	serverHub := NewHub(nil)
	go serverHub.Run(ctx)
	go func() { _ = serverHub.Forward(ctx, bus, MatchEventsChannel) }()
	<-bus.subscribed

	client := NewClient(serverHub, nil, 1)
	serverHub.Register(client)
	require.Eventually(t, func() bool { return serverHub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// the worker's own hub has no clients and is never run
	workerHub := NewHub(nil)
	NewRelayNotifier(bus, MatchEventsChannel, workerHub, quiet).MatchComputed(matchView(1, 2))

	select {
	case msg := <-client.send:
		var evt MatchComputedEvent
		require.NoError(t, json.Unmarshal(msg, &evt))
		assert.Equal(t, EventMatchComputed, evt.Type)
		assert.Equal(t, int64(1), evt.JobID)
		assert.Equal(t, int64(2), evt.ResumeID)
		assert.Equal(t, "0.20", evt.Overall)
	case <-time.After(time.Second):
		t.Fatal("relayed event not delivered")
	}
}

func TestRelay_FallsBackToLocalHub(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := newMemBus()
	bus.err = errors.New("connection refused")

	hub := NewHub(nil)
	go hub.Run(ctx)
	client := NewClient(hub, nil, 0)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	NewRelayNotifier(bus, MatchEventsChannel, hub, log.New(io.Discard, "", 0)).MatchComputed(matchView(3, 4))

	select {
	case msg := <-client.send:
		assert.Contains(t, string(msg), `"job_id":3`)
	case <-time.After(time.Second):
		t.Fatal("fallback event not delivered")
	}
}

func TestHub_RegisterAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	clients := make([]*Client, 300)
	finished := make(chan struct{})
	go func() {
		for i := range clients {
			clients[i] = NewClient(hub, nil, 0)
			hub.Register(clients[i])
			hub.Unregister(clients[i])
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after shutdown")
	}
	for _, c := range clients {
		_, open := <-c.send
		assert.False(t, open)
	}
	assert.Equal(t, 0, hub.ClientCount())
}

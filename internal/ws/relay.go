package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"talent-match/internal/domain/insight"
)

// MatchEventsChannel is the pub/sub channel match events travel on between
// the worker and server processes.
const MatchEventsChannel = "talentmatch:events:match"

// EventBus carries encoded events between processes. cache.Redis
// implements it.
type EventBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error
}

// RelayNotifier sends match events over an EventBus so subscribers connected
// to any server process receive them. When the bus rejects an event it is
// delivered to the local hub instead.
type RelayNotifier struct {
	bus      EventBus
	channel  string
	fallback *Hub
	logger   *log.Logger
}

func NewRelayNotifier(bus EventBus, channel string, fallback *Hub, logger *log.Logger) *RelayNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &RelayNotifier{bus: bus, channel: channel, fallback: fallback, logger: logger}
}

func (n *RelayNotifier) MatchComputed(view insight.MatchView) {
	evt := newMatchComputedEvent(view)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := n.bus.Publish(ctx, n.channel, b); err != nil {
		n.logger.Printf("component=ws event=relay_publish_error job_id=%d err=%v", evt.JobID, err)
		n.fallback.Publish(evt.JobID, b)
	}
}

// Forward feeds events from bus into the hub until ctx ends or the
// subscription is lost.
func (h *Hub) Forward(ctx context.Context, bus EventBus, channel string) error {
	return bus.Subscribe(ctx, channel, func(payload []byte) {
		var evt struct {
			JobID int64 `json:"job_id"`
		}
		if err := json.Unmarshal(payload, &evt); err != nil {
			h.logf("component=ws event=relay_decode_error err=%v", err)
			return
		}
		h.Publish(evt.JobID, payload)
	})
}

// Package realtime delivers order events to the push gateway that owns the
// websocket rooms. Delivery is fire-and-forget: events are queued in memory
// and dropped with a log line when the queue is full or the gateway is down,
// so the business operation that emitted them is never slowed down.
package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fulfillment/internal/core/ports"
)

const (
	queueCapacity  = 256
	requestTimeout = 2 * time.Second
)

// PushNotifier implements ports.Notifier over the gateway's HTTP emit
// endpoint. A single background worker drains the queue so event order is
// preserved per process.
type PushNotifier struct {
	emitURL string
	client  *http.Client
	logger  *slog.Logger

	queue chan ports.Event
	done  chan struct{}
	once  sync.Once
}

func NewPushNotifier(gatewayURL string, logger *slog.Logger) *PushNotifier {
	n := &PushNotifier{
		emitURL: gatewayURL + "/emit",
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
		queue:   make(chan ports.Event, queueCapacity),
		done:    make(chan struct{}),
	}
	go n.run()
	return n
}

// Publish enqueues the event without blocking. When the queue is saturated
// the event is dropped: realtime views reconcile on the next full fetch.
func (n *PushNotifier) Publish(event ports.Event) {
	select {
	case n.queue <- event:
	default:
		n.logger.Warn("realtime queue full, dropping event",
			"event", event.Name,
			"room", string(event.Room))
	}
}

// Close stops accepting events and waits for the worker to drain the queue.
func (n *PushNotifier) Close() {
	n.once.Do(func() {
		close(n.queue)
		<-n.done
	})
}

func (n *PushNotifier) run() {
	defer close(n.done)

	for event := range n.queue {
		n.emit(event)
	}
}

func (n *PushNotifier) emit(event ports.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("realtime event not serializable",
			"event", event.Name,
			"error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.emitURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("realtime request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("realtime gateway unreachable, dropping event",
			"event", event.Name,
			"room", string(event.Room),
			"error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("realtime gateway rejected event",
			"event", event.Name,
			"room", string(event.Room),
			"status", resp.StatusCode)
	}
}

// Package sse pushes content-change notifications to open pages over a
// text/event-stream connection.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event is one named message on the stream. Data is sent as JSON.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event types.
const (
	TypeContentUpdated = "content.updated"
	TypeSiteReload     = "site.reload"
)

const (
	clientBuffer = 64
	opBuffer     = 256
)

// hub is the subscriber state. Only the Broker loop touches it.
type hub struct {
	subscribers map[chan []byte]struct{}
	reloadEvery time.Duration
	lastReload  time.Time
}

func (h *hub) send(ev Event) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return
	}
	frame := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", ev.Type, data))
	for ch := range h.subscribers {
		select {
		case ch <- frame:
		default:
			// slow reader, drop
		}
	}
}

func (h *hub) contentChanged(category string, indexed, removed int) {
	h.send(Event{Type: TypeContentUpdated, Data: map[string]any{
		"category": category,
		"indexed":  indexed,
		"removed":  removed,
	}})
	if now := time.Now(); now.Sub(h.lastReload) >= h.reloadEvery {
		h.lastReload = now
		h.send(Event{Type: TypeSiteReload, Data: map[string]string{}})
	}
}

// Broker fans events out to subscribed streams. Every mutation is queued as
// an op and applied in order by one goroutine, so callers never lock.
type Broker struct {
	ops     chan func(*hub)
	quit    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker. Bursts of content changes produce at most one
// site.reload per reloadThrottle; non-positive values mean two seconds.
func NewBroker(reloadThrottle time.Duration) *Broker {
	if reloadThrottle <= 0 {
		reloadThrottle = 2 * time.Second
	}
	b := &Broker{
		ops:     make(chan func(*hub), opBuffer),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	h := &hub{subscribers: make(map[chan []byte]struct{}), reloadEvery: reloadThrottle}
	go b.loop(h)
	return b
}

func (b *Broker) loop(h *hub) {
	defer close(b.stopped)
	for {
		select {
		case <-b.quit:
			for ch := range h.subscribers {
				close(ch)
			}
			return
		case op := <-b.ops:
			op(h)
		}
	}
}

// enqueue hands op to the loop. It reports false once the broker is closed.
func (b *Broker) enqueue(op func(*hub)) bool {
	if b.closed.Load() {
		return false
	}
	select {
	case b.ops <- op:
		return true
	case <-b.stopped:
		return false
	}
}

// Close stops the loop and closes every subscriber channel. Queued ops that
// have not run yet are discarded. Safe to call more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.quit)
	}
	<-b.stopped
}

// Subscribe registers a stream. The returned channel is already closed when
// the broker is shut down.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	added := make(chan struct{})
	ok := b.enqueue(func(h *hub) {
		h.subscribers[ch] = struct{}{}
		close(added)
	})
	if !ok {
		close(ch)
		return ch
	}
	select {
	case <-added:
	case <-b.stopped:
		// The loop closes ch itself if the op ran before shutdown.
		select {
		case <-added:
		default:
			close(ch)
		}
	}
	return ch
}

// Unsubscribe drops a stream and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.enqueue(func(h *hub) {
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	})
}

// ClientCount reports how many streams are open; zero after Close.
func (b *Broker) ClientCount() int {
	n := make(chan int, 1)
	if !b.enqueue(func(h *hub) { n <- len(h.subscribers) }) {
		return 0
	}
	select {
	case v := <-n:
		return v
	case <-b.stopped:
		return 0
	}
}

// Publish queues ev for every subscriber.
func (b *Broker) Publish(ev Event) {
	b.enqueue(func(h *hub) { h.send(ev) })
}

// PublishContentEvent announces a category change, followed by a
// site.reload unless one went out within the throttle window.
func (b *Broker) PublishContentEvent(category string, indexed, removed int) {
	b.enqueue(func(h *hub) { h.contentChanged(category, indexed, removed) })
}

// ServeHTTP streams events until the client goes away or the broker closes.
// The stream opens with a ": connected" comment line.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, open := <-ch:
			if !open {
				return
			}
			_, _ = w.Write(frame)
			flusher.Flush()
		}
	}
}

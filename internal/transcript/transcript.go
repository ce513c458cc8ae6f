// Package transcript holds the append-only operator log shown next to the
// dashboard. Producers enqueue batches; a single consumer goroutine appends
// them to the visible sequence and fans them out to live subscribers.
package transcript

import (
	"errors"
	"log/slog"
	"strconv"
	"sync"
)

// ErrClosed is returned when appending to a transcript that has been closed.
var ErrClosed = errors.New("transcript closed")

// Subscriber receives every entry appended after it subscribed.
type Subscriber struct {
	ID string
	Ch chan Entry
}

// Transcript is a single-writer, append-only entry log.
type Transcript struct {
	queue chan []Entry
	done  chan struct{}

	closeOnce sync.Once
	sendMu    sync.RWMutex
	closed    bool

	mu          sync.RWMutex
	entries     []Entry
	subscribers map[string]*Subscriber
	nextSubID   int
	stopped     bool

	logger *slog.Logger
}

// New creates a transcript and starts its consumer. queueSize bounds how many
// pending batches may wait before Append blocks.
func New(queueSize int, logger *slog.Logger) *Transcript {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize <= 0 {
		queueSize = 64
	}

	t := &Transcript{
		queue:       make(chan []Entry, queueSize),
		done:        make(chan struct{}),
		subscribers: make(map[string]*Subscriber),
		logger:      logger,
	}
	go t.run()
	return t
}

// Append enqueues a batch. Entries of one batch stay contiguous and keep
// their order.
func (t *Transcript) Append(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	t.sendMu.RLock()
	defer t.sendMu.RUnlock()
	if t.closed {
		return ErrClosed
	}

	batch := make([]Entry, len(entries))
	copy(batch, entries)
	t.queue <- batch
	return nil
}

// Close stops accepting entries and waits until everything already enqueued
// has been appended.
func (t *Transcript) Close() {
	t.closeOnce.Do(func() {
		t.sendMu.Lock()
		t.closed = true
		close(t.queue)
		t.sendMu.Unlock()
	})
	<-t.done
}

func (t *Transcript) run() {
	defer close(t.done)

	for batch := range t.queue {
		t.mu.Lock()
		t.entries = append(t.entries, batch...)
		for _, sub := range t.subscribers {
			for _, e := range batch {
				select {
				case sub.Ch <- e:
				default:
					t.logger.Warn("transcript subscriber full, dropping entry",
						"subscriber_id", sub.ID,
						"entry_id", e.ID,
					)
				}
			}
		}
		t.mu.Unlock()
	}

	t.mu.Lock()
	t.stopped = true
	for id, sub := range t.subscribers {
		close(sub.Ch)
		delete(t.subscribers, id)
	}
	t.mu.Unlock()
}

// Entries returns a copy of the whole transcript.
func (t *Transcript) Entries() []Entry {
	return t.Since(0)
}

// Since returns a copy of the entries at positions >= offset.
func (t *Transcript) Since(offset int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(t.entries) {
		return []Entry{}
	}
	out := make([]Entry, len(t.entries)-offset)
	copy(out, t.entries[offset:])
	return out
}

// Len reports how many entries have been appended so far.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Subscribe registers a live listener with the given channel buffer.
func (t *Transcript) Subscribe(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = 100
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextSubID++
	sub := &Subscriber{
		ID: subscriberID(t.nextSubID),
		Ch: make(chan Entry, buffer),
	}
	if t.stopped {
		close(sub.Ch)
		return sub
	}
	t.subscribers[sub.ID] = sub
	t.logger.Debug("transcript subscriber added", "subscriber_id", sub.ID)
	return sub
}

// Unsubscribe removes a listener and closes its channel.
func (t *Transcript) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.subscribers[sub.ID]; ok {
		close(sub.Ch)
		delete(t.subscribers, sub.ID)
		t.logger.Debug("transcript subscriber removed", "subscriber_id", sub.ID)
	}
}

// SubscriberCount returns the number of live listeners.
func (t *Transcript) SubscriberCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subscribers)
}

func subscriberID(n int) string {
	return "sub-" + strconv.Itoa(n)
}

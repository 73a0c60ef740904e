package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultQueueSize = 1024
	flushBatchSize   = 64
	insertTimeout    = 5 * time.Second
)

// Sink accepts access log entries off the request path. Append never
// blocks the caller: entries go onto a bounded queue and a background
// flusher persists them in batches, retrying a failed batch once before
// reporting it to the side-channel logger and dropping it. The
// authorization decision an entry describes is never affected by the
// fate of its write.
type Sink struct {
	store *Store
	log   *zap.SugaredLogger

	queue chan Entry
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewSink starts the background flusher. queueSize <= 0 picks the default.
func NewSink(store *Store, log *zap.SugaredLogger, queueSize int) *Sink {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	s := &Sink{
		store: store,
		log:   log,
		queue: make(chan Entry, queueSize),
		done:  make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Append enqueues an entry, filling in ID and Timestamp when absent. A
// full queue drops the entry with a side-channel error rather than block.
func (s *Sink) Append(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Errorw("access log entry dropped, sink closed", "user", e.UserID, "action", e.Action)
		return
	}
	select {
	case s.queue <- e:
	default:
		s.log.Errorw("access log entry dropped, queue full", "user", e.UserID, "action", e.Action)
	}
}

// Close stops intake, drains the queue and waits for the flusher.
func (s *Sink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	<-s.done
}

func (s *Sink) flushLoop() {
	defer close(s.done)
	for {
		e, ok := <-s.queue
		if !ok {
			return
		}
		batch := []Entry{e}
		for len(batch) < flushBatchSize {
			select {
			case next, ok := <-s.queue:
				if !ok {
					s.flush(batch)
					return
				}
				batch = append(batch, next)
			default:
				goto drained
			}
		}
	drained:
		s.flush(batch)
	}
}

// flush writes one batch, retrying once before giving up. Each attempt
// gets its own timeout so a first attempt that runs out the clock still
// leaves the retry a full budget.
func (s *Sink) flush(batch []Entry) {
	err := s.insert(batch)
	if err == nil {
		return
	}
	if retryErr := s.insert(batch); retryErr == nil {
		return
	}
	s.log.Errorw("access log batch dropped after retry", "count", len(batch), "error", err)
}

func (s *Sink) insert(batch []Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()
	return s.store.Insert(ctx, batch)
}

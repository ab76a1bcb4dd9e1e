package storage

import (
	"log"
	"sync"
)

// Queue serializes durable writes per logical key. Mutations hand the queue a
// full-collection snapshot and return immediately; snapshots for one key are
// applied in order, and because each snapshot supersedes the previous one,
// unwritten intermediates may be coalesced away.
//
// Write failures are logged, retained per key (Err), and passed to the
// optional OnError hook.
type Queue struct {
	backend Backend
	onError func(key string, err error)

	mu      sync.Mutex
	writers map[string]*keyWriter
}

type keyWriter struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []byte
	dirty   bool
	running bool
	lastErr error
}

func NewQueue(backend Backend, onError func(key string, err error)) *Queue {
	return &Queue{
		backend: backend,
		onError: onError,
		writers: make(map[string]*keyWriter),
	}
}

func (q *Queue) writer(key string) *keyWriter {
	q.mu.Lock()
	defer q.mu.Unlock()

	w, ok := q.writers[key]
	if !ok {
		w = &keyWriter{}
		w.cond = sync.NewCond(&w.mu)
		q.writers[key] = w
	}
	return w
}

// Put schedules value as the next durable snapshot for key.
func (q *Queue) Put(key string, value []byte) {
	w := q.writer(key)

	w.mu.Lock()
	w.pending = value
	w.dirty = true
	if !w.running {
		w.running = true
		go q.run(key, w)
	}
	w.mu.Unlock()
}

func (q *Queue) run(key string, w *keyWriter) {
	for {
		w.mu.Lock()
		if !w.dirty {
			w.running = false
			w.cond.Broadcast()
			w.mu.Unlock()
			return
		}
		value := w.pending
		w.dirty = false
		w.mu.Unlock()

		err := q.backend.Put(key, value)

		w.mu.Lock()
		w.lastErr = err
		w.mu.Unlock()

		if err != nil {
			log.Printf("storage: write %s failed: %v", key, err)
			if q.onError != nil {
				q.onError(key, err)
			}
		}
	}
}

// Get returns the newest snapshot for key, preferring a pending unwritten one
// over what the backend holds.
func (q *Queue) Get(key string) ([]byte, bool, error) {
	w := q.writer(key)

	w.mu.Lock()
	if w.dirty {
		value := append([]byte(nil), w.pending...)
		w.mu.Unlock()
		return value, true, nil
	}
	w.mu.Unlock()

	return q.backend.Get(key)
}

// Err returns the last write failure for key, or nil.
func (q *Queue) Err(key string) error {
	w := q.writer(key)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Flush blocks until every scheduled write has been applied.
func (q *Queue) Flush() {
	q.mu.Lock()
	writers := make([]*keyWriter, 0, len(q.writers))
	for _, w := range q.writers {
		writers = append(writers, w)
	}
	q.mu.Unlock()

	for _, w := range writers {
		w.mu.Lock()
		for w.dirty || w.running {
			w.cond.Wait()
		}
		w.mu.Unlock()
	}
}

// Package vault holds the persisted app stores. Each store keeps its working
// set in memory and hands full-collection snapshots to the storage queue on
// every mutation, so reads never touch disk and writes never block callers.
package vault

import (
	"encoding/json"
	"fmt"
	"sync"

	"travel-vault-server/internal/storage"
)

// Record is any entity addressable by a stable id.
type Record interface {
	RecordID() string
}

// Records is an ordered in-memory collection of T persisted as a single JSON
// array under one storage key. Mutations are applied in memory first and then
// queued for durable write.
type Records[T Record] struct {
	queue *storage.Queue
	key   string

	mu     sync.RWMutex
	items  []T
	nextID int
	subs   map[int]func([]T)
}

func NewRecords[T Record](queue *storage.Queue, key string) *Records[T] {
	return &Records[T]{
		queue: queue,
		key:   key,
		subs:  make(map[int]func([]T)),
	}
}

// Load replaces the working set with the persisted snapshot. An absent key
// yields an empty collection.
func (r *Records[T]) Load() error {
	data, ok, err := r.queue.Get(r.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", r.key, err)
	}

	var items []T
	if ok {
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("load %s: %w", r.key, err)
		}
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	r.notify()
	return nil
}

// Add appends item and schedules a durable write.
func (r *Records[T]) Add(item T) {
	r.mu.Lock()
	r.items = append(r.items, item)
	r.persistLocked()
	r.mu.Unlock()
	r.notify()
}

// Update replaces the record with item's id in place, keeping its position.
// Updating an absent id is a no-op; the return value reports whether a record
// changed.
func (r *Records[T]) Update(item T) bool {
	r.mu.Lock()
	for i := range r.items {
		if r.items[i].RecordID() == item.RecordID() {
			r.items[i] = item
			r.persistLocked()
			r.mu.Unlock()
			r.notify()
			return true
		}
	}
	r.mu.Unlock()
	return false
}

// Delete removes the record with the given id. Absent ids are a no-op.
func (r *Records[T]) Delete(id string) bool {
	r.mu.Lock()
	for i := range r.items {
		if r.items[i].RecordID() == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			r.persistLocked()
			r.mu.Unlock()
			r.notify()
			return true
		}
	}
	r.mu.Unlock()
	return false
}

// Get returns the record with the given id.
func (r *Records[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// List returns a copy of the collection in insertion order.
func (r *Records[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Records[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Subscribe registers fn to run after every mutation with a snapshot of the
// collection. The returned function cancels the subscription.
func (r *Records[T]) Subscribe(fn func([]T)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// persistLocked marshals the collection and queues the write. Callers hold mu.
func (r *Records[T]) persistLocked() {
	items := r.items
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		// Only unmarshalable custom types can land here; record types are
		// plain structs.
		return
	}
	r.queue.Put(r.key, data)
}

func (r *Records[T]) notify() {
	r.mu.RLock()
	fns := make([]func([]T), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	items := make([]T, len(r.items))
	copy(items, r.items)
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(items)
	}
}

package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Preet1920/finebookeasyaccounting/shared/models"
)

const saveTimeout = 10 * time.Second

// SnapshotRepository owns the authoritative user collection. Mutations replace
// the whole snapshot under one lock; a background writer persists the latest
// snapshot after each commit. Save failures are logged and never roll back the
// in-memory state.
type SnapshotRepository struct {
	store DurableStore

	mu      sync.RWMutex
	users   models.Collection
	version uint64

	saveMu  sync.Mutex
	saved   uint64
	savedCh *sync.Cond
	closed  bool

	wake      chan struct{}
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// OpenSnapshotRepository loads the collection from store and starts the writer.
// A load failure is logged and the repository starts empty.
func OpenSnapshotRepository(ctx context.Context, store DurableStore) *SnapshotRepository {
	users, err := store.Load(ctx)
	if err != nil {
		log.Printf("Failed to load ledger record, starting empty: %v", err)
		users = models.Collection{}
	}
	r := &SnapshotRepository{
		store:   store,
		users:   users,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	r.savedCh = sync.NewCond(&r.saveMu)
	go r.run()
	return r
}

// Current returns the latest committed snapshot. Callers must not modify it.
func (r *SnapshotRepository) Current() models.Collection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users
}

// Update applies fn to the current snapshot and commits the result when fn
// returns no error. fn must not mutate its argument.
func (r *SnapshotRepository) Update(fn func(models.Collection) (models.Collection, error)) error {
	r.mu.Lock()
	next, err := fn(r.users)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.users = next
	r.version++
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return nil
}

func (r *SnapshotRepository) run() {
	defer close(r.stopped)
	for {
		select {
		case <-r.wake:
			r.persist()
		case <-r.quit:
			r.persist()
			return
		}
	}
}

func (r *SnapshotRepository) persist() {
	r.mu.RLock()
	users, version := r.users, r.version
	r.mu.RUnlock()

	r.saveMu.Lock()
	done := r.saved >= version
	r.saveMu.Unlock()
	if done {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := r.store.Save(ctx, users); err != nil {
		log.Printf("Failed to save ledger record (version %d): %v", version, err)
	}

	r.saveMu.Lock()
	r.saved = version
	r.savedCh.Broadcast()
	r.saveMu.Unlock()
}

// Flush blocks until every commit made before the call has been handed to the
// store, whether or not the write succeeded.
func (r *SnapshotRepository) Flush() {
	r.mu.RLock()
	target := r.version
	r.mu.RUnlock()

	r.saveMu.Lock()
	defer r.saveMu.Unlock()
	for r.saved < target && !r.closed {
		r.savedCh.Wait()
	}
}

// Close persists any pending snapshot and stops the writer. Concurrent and
// repeated calls all return once the writer has stopped.
func (r *SnapshotRepository) Close() {
	r.closeOnce.Do(func() {
		close(r.quit)
		<-r.stopped

		r.saveMu.Lock()
		r.closed = true
		r.savedCh.Broadcast()
		r.saveMu.Unlock()
	})
}

package repository

import (
	"context"
	"log"
	"sync"

	"github.com/Preet1920/finebookeasyaccounting/shared/models"
)

// SessionRepository tracks the authenticated user and the active book. The user
// id is mirrored to a SessionStore; the active book lives only in memory and is
// re-derived on restore.
type SessionRepository struct {
	store SessionStore

	mu           sync.RWMutex
	userID       string
	activeBookID string
}

func NewSessionRepository(store SessionStore) *SessionRepository {
	return &SessionRepository{store: store}
}

// Restore reads the stored pointer and reconciles it against users. A pointer
// naming an unknown user is discarded.
func (r *SessionRepository) Restore(ctx context.Context, users models.Collection) {
	id, ok, err := r.store.Get(ctx)
	if err != nil {
		log.Printf("Failed to read session pointer: %v", err)
		return
	}
	if !ok {
		return
	}
	user, found := users.FindUser(id)
	if !found {
		log.Printf("Discarding session for unknown user %s", id)
		if err := r.store.Clear(ctx); err != nil {
			log.Printf("Failed to clear session pointer: %v", err)
		}
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = user.ID
	r.activeBookID = ""
	if b, ok := user.FirstBook(models.BookTypeGeneral); ok {
		r.activeBookID = b.ID
	}
}

// Login points the session at userID with activeBookID selected.
func (r *SessionRepository) Login(ctx context.Context, userID, activeBookID string) {
	r.mu.Lock()
	r.userID = userID
	r.activeBookID = activeBookID
	r.mu.Unlock()
	if err := r.store.Set(ctx, userID); err != nil {
		log.Printf("Failed to store session pointer: %v", err)
	}
}

func (r *SessionRepository) Logout(ctx context.Context) {
	r.mu.Lock()
	r.userID = ""
	r.activeBookID = ""
	r.mu.Unlock()
	if err := r.store.Clear(ctx); err != nil {
		log.Printf("Failed to clear session pointer: %v", err)
	}
}

// SetActiveBook changes the active book of the current session. It is ignored
// when the session belongs to a different user.
func (r *SessionRepository) SetActiveBook(userID, bookID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.userID == userID {
		r.activeBookID = bookID
	}
}

func (r *SessionRepository) Current() (userID, activeBookID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userID, r.activeBookID
}

func (r *SessionRepository) CurrentUserID() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userID, r.userID != ""
}

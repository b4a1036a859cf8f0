package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	UserRegistered      = "user.registered"
	UserProfileUpdated  = "user.profile_updated"
	UserPasswordChanged = "user.password_changed"

	BookCreated         = "book.created"
	BookCurrencyUpdated = "book.currency_updated"
	BookDeleted         = "book.deleted"

	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	MSBStatusUpdated   = "transaction.msb_status_updated"
)

// Stream names
const (
	UserEventsStream        = "finebook.user.events"
	BookEventsStream        = "finebook.book.events"
	TransactionEventsStream = "finebook.transaction.events"
)

// AllStreams lists every ledger stream, in the order subscribers read them.
var AllStreams = []string{UserEventsStream, BookEventsStream, TransactionEventsStream}

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// DecodeData re-decodes the loosely typed Data of a received event into T.
func DecodeData[T any](event Event) (T, error) {
	var out T
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return out, fmt.Errorf("failed to marshal %s payload: %w", event.Type, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
	}
	return out, nil
}

// User events
type UserEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Book events
type BookEvent struct {
	BookID   string `json:"bookId"`
	UserID   string `json:"userId"`
	Name     string `json:"name,omitempty"`
	Currency string `json:"currency,omitempty"`
	Type     string `json:"type,omitempty"`
	// Transactions is the number of transactions removed with a deleted book.
	Transactions int `json:"transactions,omitempty"`
}

// Transaction events
type TransactionEvent struct {
	TransactionID string `json:"transactionId"`
	BookID        string `json:"bookId"`
	UserID        string `json:"userId"`
	Amount        string `json:"amount,omitempty"`
	Type          string `json:"type,omitempty"`
	Category      string `json:"category,omitempty"`
	Status        string `json:"status,omitempty"`
}

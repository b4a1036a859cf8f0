package command

import (
	"context"
	"testing"

	"github.com/Preet1920/finebookeasyaccounting/shared/events"
)

func TestHandleLedgerEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   events.Event
		wantErr bool
	}{
		{name: "user", event: events.Event{Type: events.UserRegistered, Data: map[string]any{"userId": "usr-1"}}},
		{name: "book", event: events.Event{Type: events.BookDeleted, Data: map[string]any{"bookId": "bk-1", "transactions": 3}}},
		{name: "transaction", event: events.Event{Type: events.MSBStatusUpdated, Data: map[string]any{"transactionId": "tan-1", "status": "PAID"}}},
		{name: "unknown type", event: events.Event{Type: "account.created"}},
		{name: "bad payload", event: events.Event{Type: events.BookCreated, Data: map[string]any{"bookId": 42}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleLedgerEvent(context.Background(), tt.event)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

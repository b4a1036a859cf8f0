package events

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestDecodeMessage(t *testing.T) {
	msg := redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"event": `{"type":"book.created","timestamp":"2024-03-01T10:00:00Z","data":{"bookId":"bk-1","userId":"usr-1","name":"Daily"}}`,
		},
	}

	event, err := decodeMessage(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != BookCreated {
		t.Errorf("expected type %s, got %s", BookCreated, event.Type)
	}

	book, err := DecodeData[BookEvent](event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.BookID != "bk-1" || book.UserID != "usr-1" || book.Name != "Daily" {
		t.Errorf("unexpected payload: %+v", book)
	}
}

func TestDecodeMessageInvalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{"missing event", map[string]interface{}{}},
		{"wrong type", map[string]interface{}{"event": 42}},
		{"bad json", map[string]interface{}{"event": "{not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeMessage(redis.XMessage{Values: tt.values}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecodeDataMismatch(t *testing.T) {
	event := Event{Type: TransactionCreated, Data: "not an object"}
	if _, err := DecodeData[TransactionEvent](event); err == nil {
		t.Error("expected error for non-object payload")
	}
}

func TestNewSubscriberDefaults(t *testing.T) {
	s := NewSubscriber(nil, SubscriberConfig{Group: "g", Consumer: "c"})
	if s.batchSize != 10 {
		t.Errorf("expected batch size 10, got %d", s.batchSize)
	}
	if len(s.streams) != len(AllStreams) {
		t.Errorf("expected all %d streams, got %v", len(AllStreams), s.streams)
	}
}

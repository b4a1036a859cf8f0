package command

import (
	"context"
	"log"
	"strings"

	"github.com/Preet1920/finebookeasyaccounting/shared/events"
)

// HandleLedgerEvent writes one audit line per ledger event read back from the
// streams. Undecodable payloads are rejected so they stay pending.
func HandleLedgerEvent(ctx context.Context, event events.Event) error {
	switch {
	case strings.HasPrefix(event.Type, "user."):
		data, err := events.DecodeData[events.UserEvent](event)
		if err != nil {
			return err
		}
		log.Printf("audit %s user=%s", event.Type, data.UserID)
	case strings.HasPrefix(event.Type, "book."):
		data, err := events.DecodeData[events.BookEvent](event)
		if err != nil {
			return err
		}
		log.Printf("audit %s user=%s book=%s type=%s", event.Type, data.UserID, data.BookID, data.Type)
	case strings.HasPrefix(event.Type, "transaction."):
		data, err := events.DecodeData[events.TransactionEvent](event)
		if err != nil {
			return err
		}
		log.Printf("audit %s user=%s book=%s transaction=%s amount=%s status=%s",
			event.Type, data.UserID, data.BookID, data.TransactionID, data.Amount, data.Status)
	default:
		log.Printf("audit: ignoring unknown event type %q", event.Type)
	}
	return nil
}

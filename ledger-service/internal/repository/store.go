package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Preet1920/finebookeasyaccounting/shared/models"
)

// LedgerRecordKey names the durable record (file stem, Redis key, SQL row, Mongo _id).
const LedgerRecordKey = "finebook-users"

// ErrNoRecord is returned by a RecordStore that has never been written.
var ErrNoRecord = errors.New("no ledger record")

// RecordStore is a byte-level backend holding the single durable JSON record.
type RecordStore interface {
	ReadRecord(ctx context.Context) ([]byte, error)
	WriteRecord(ctx context.Context, data []byte) error
}

// DurableStore loads and saves the whole user collection.
type DurableStore interface {
	Load(ctx context.Context) (models.Collection, error)
	Save(ctx context.Context, users models.Collection) error
}

// SessionStore holds the session pointer: the id of the authenticated user.
// Its lifetime is independent of the durable record.
type SessionStore interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}

// JSONStore adapts a RecordStore into a DurableStore: the record is a JSON
// array of users, migrated on load.
type JSONStore struct {
	records RecordStore
}

func NewJSONStore(records RecordStore) *JSONStore {
	return &JSONStore{records: records}
}

// Load returns an empty collection when nothing was ever saved.
func (s *JSONStore) Load(ctx context.Context) (models.Collection, error) {
	data, err := s.records.ReadRecord(ctx)
	if errors.Is(err, ErrNoRecord) {
		return models.Collection{}, nil
	}
	if err != nil {
		return nil, err
	}
	users, report, err := DecodeCollection(data)
	if err != nil {
		return nil, err
	}
	report.Log()
	return users, nil
}

func (s *JSONStore) Save(ctx context.Context, users models.Collection) error {
	if users == nil {
		users = models.Collection{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode ledger record: %w", err)
	}
	return s.records.WriteRecord(ctx, data)
}

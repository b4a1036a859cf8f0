package repository

import (
	"context"
	"sync"
)

// MemoryRecordStore holds the durable record in process memory.
type MemoryRecordStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryRecordStore(initial []byte) *MemoryRecordStore {
	return &MemoryRecordStore{data: initial}
}

func (s *MemoryRecordStore) ReadRecord(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNoRecord
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemoryRecordStore) WriteRecord(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

// MemorySessionStore lives exactly as long as the process.
type MemorySessionStore struct {
	mu     sync.Mutex
	userID string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Get(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userID != "", nil
}

func (s *MemorySessionStore) Set(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	return nil
}

func (s *MemorySessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	return nil
}

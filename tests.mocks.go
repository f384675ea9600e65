package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

// MockCollectionStorage implements a fake CollectionStorage. Each save is
// recorded per key so tests can inspect the last persisted snapshot.
type MockCollectionStorage struct {
	LoadFunc func(ctx context.Context, key string) ([]json.RawMessage, error)
	SaveFunc func(ctx context.Context, key string, records interface{}) error

	mu    sync.Mutex
	Saved map[string]interface{}
}

// LoadCollection mocks the behavior of loading a collection snapshot.
func (m *MockCollectionStorage) LoadCollection(ctx context.Context, key string) ([]json.RawMessage, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, key)
	}
	return []json.RawMessage{}, nil
}

// SaveCollection mocks the behavior of persisting a collection snapshot.
func (m *MockCollectionStorage) SaveCollection(ctx context.Context, key string, records interface{}) error {
	m.mu.Lock()
	if m.Saved == nil {
		m.Saved = make(map[string]interface{})
	}
	m.Saved[key] = records
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, key, records)
	}
	return nil
}

// LastSaved returns the snapshot recorded for a given storage key.
func (m *MockCollectionStorage) LastSaved(key string) interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saved[key]
}

// MockQueuer implements a fake Queuer. Pushed snapshots are
// recorded per queue id.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, snapshot []byte) error
	PopFunc  func(ctx context.Context, qids ...string) (string, []byte, error)

	mu     sync.Mutex
	Pushed map[string][][]byte
}

// Push mocks the behavior of pushing a snapshot to a sync queue.
func (m *MockQueuer) Push(ctx context.Context, qid string, snapshot []byte) error {
	m.mu.Lock()
	if m.Pushed == nil {
		m.Pushed = make(map[string][][]byte)
	}
	m.Pushed[qid] = append(m.Pushed[qid], snapshot)
	m.mu.Unlock()
	if m.PushFunc != nil {
		return m.PushFunc(ctx, qid, snapshot)
	}
	return nil
}

// Pop mocks the behavior of popping a snapshot from the sync queues.
func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, []byte, error) {
	if m.PopFunc != nil {
		return m.PopFunc(ctx, qids...)
	}
	<-ctx.Done()
	return "", nil, ctx.Err()
}

// LastPushed returns the latest snapshot pushed to a given queue id.
func (m *MockQueuer) LastPushed(qid string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	pushed := m.Pushed[qid]
	if len(pushed) == 0 {
		return nil
	}
	return pushed[len(pushed)-1]
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

// rawCollection builds a stored snapshot out of the given records.
func rawCollection(records ...interface{}) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(records))
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			panic(err)
		}
		out = append(out, json.RawMessage(payload))
	}
	return out
}

// storageWith returns a mock storage preloaded with per-key snapshots.
func storageWith(snapshots map[string][]json.RawMessage) *MockCollectionStorage {
	return &MockCollectionStorage{
		LoadFunc: func(_ context.Context, key string) ([]json.RawMessage, error) {
			if snapshot, ok := snapshots[key]; ok {
				return snapshot, nil
			}
			return []json.RawMessage{}, nil
		},
	}
}

package testutil

import (
	"errors"
	"sync"
	"testing"

	"steadfast/internal/anchor"
	"steadfast/internal/kv"
)

// ErrInjected is returned by FaultyKeyValue when a fault is armed.
var ErrInjected = errors.New("injected storage failure")

// NewTestKeyValue returns an empty in-memory store closed at test end.
func NewTestKeyValue(t *testing.T) *kv.MemoryStore {
	t.Helper()
	store := kv.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	return store
}

// NewTestSyncStore returns a SyncStore over an in-memory store, using clock
// for timestamps and sequential ids.
func NewTestSyncStore(t *testing.T, clock anchor.Clock) (*anchor.SyncStore, *kv.MemoryStore) {
	t.Helper()
	store := NewTestKeyValue(t)
	return anchor.NewSyncStore(store, clock, NewStubIDGenerator(), anchor.NewNopLogger()), store
}

// FaultyKeyValue wraps a store and fails selected operations on demand.
type FaultyKeyValue struct {
	Inner anchor.KeyValue

	mu         sync.Mutex
	failGet    bool
	failSet    bool
	failRemove bool
	sets       int
}

// NewFaultyKeyValue wraps an in-memory store.
func NewFaultyKeyValue() *FaultyKeyValue {
	return &FaultyKeyValue{Inner: kv.NewMemoryStore()}
}

// FailGets makes every Get return ErrInjected while on is true.
func (f *FaultyKeyValue) FailGets(on bool) { f.mu.Lock(); f.failGet = on; f.mu.Unlock() }

// FailSets makes every Set return ErrInjected while on is true.
func (f *FaultyKeyValue) FailSets(on bool) { f.mu.Lock(); f.failSet = on; f.mu.Unlock() }

// FailRemoves makes every Remove return ErrInjected while on is true.
func (f *FaultyKeyValue) FailRemoves(on bool) { f.mu.Lock(); f.failRemove = on; f.mu.Unlock() }

// Sets reports how many successful Set calls were made.
func (f *FaultyKeyValue) Sets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

func (f *FaultyKeyValue) Get(key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.Inner.Get(key)
}

func (f *FaultyKeyValue) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return ErrInjected
	}
	if err := f.Inner.Set(key, value); err != nil {
		return err
	}
	f.sets++
	return nil
}

func (f *FaultyKeyValue) Remove(key string) error {
	f.mu.Lock()
	fail := f.failRemove
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Inner.Remove(key)
}

func (f *FaultyKeyValue) Close() error { return f.Inner.Close() }

var _ anchor.KeyValue = (*FaultyKeyValue)(nil)

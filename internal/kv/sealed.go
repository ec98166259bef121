package kv

import (
	"fmt"

	"steadfast/internal/anchor"
)

// Sealer encrypts values before they reach the underlying medium.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(ciphertext []byte) ([]byte, error)
}

// SealedStore wraps a KeyValue so values are stored encrypted at rest.
// A value that fails to open is returned as an error; the sync store treats
// that the same as a missing value.
type SealedStore struct {
	inner  anchor.KeyValue
	sealer Sealer
}

// NewSealedStore wraps inner with sealer.
func NewSealedStore(inner anchor.KeyValue, sealer Sealer) *SealedStore {
	return &SealedStore{inner: inner, sealer: sealer}
}

func (s *SealedStore) Get(key string) ([]byte, error) {
	data, err := s.inner.Get(key)
	if err != nil || data == nil {
		return nil, err
	}
	plain, err := s.sealer.Open(data)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	return plain, nil
}

func (s *SealedStore) Set(key string, value []byte) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("sealing %s: %w", key, err)
	}
	return s.inner.Set(key, sealed)
}

func (s *SealedStore) Remove(key string) error { return s.inner.Remove(key) }

func (s *SealedStore) Close() error { return s.inner.Close() }

// Compile-time check that SealedStore implements anchor.KeyValue
var _ anchor.KeyValue = (*SealedStore)(nil)

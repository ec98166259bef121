package anchor

import (
	"fmt"
	"time"

	"steadfast/internal/model"
)

// Keys under which the payload is persisted in the shared medium.
const (
	PayloadKey       = "anchor_of_day_payload"
	LegacyPayloadKey = "shared_anchor_payload"
)

// SyncStore persists the single current DailyAnchorPayload in a KeyValue
// medium shared with out-of-process surfaces. Writes are last-value-wins;
// no history is kept.
type SyncStore struct {
	kv     KeyValue
	clock  Clock
	idgen  IDGenerator
	logger Logger
}

// NewSyncStore creates a SyncStore over kv.
func NewSyncStore(kv KeyValue, clock Clock, idgen IDGenerator, logger Logger) *SyncStore {
	if clock == nil {
		clock = RealClock{}
	}
	if idgen == nil {
		idgen = UUIDGenerator{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &SyncStore{kv: kv, clock: clock, idgen: idgen, logger: logger}
}

// Save overwrites the persisted payload. A zero LastUpdated is stamped with
// the current time.
func (s *SyncStore) Save(p model.DailyAnchorPayload) error {
	if p.LastUpdated.IsZero() {
		p.LastUpdated = s.clock.Now()
	}
	data, err := encodePayload(p)
	if err != nil {
		return err
	}
	if err := s.kv.Set(PayloadKey, data); err != nil {
		return fmt.Errorf("saving anchor payload: %w", err)
	}
	s.logger.Debug("anchor payload saved", "ref", p.Reference, "anchor_date", p.AnchorDate.Format(anchorDateLayout))
	return nil
}

// SaveEntry derives a payload from entry for anchorDate and saves it.
// A zero lastUpdated means now. The derived payload is returned even when
// the write fails.
func (s *SyncStore) SaveEntry(entry model.AnchorEntry, anchorDate, lastUpdated time.Time) (model.DailyAnchorPayload, error) {
	if lastUpdated.IsZero() {
		lastUpdated = s.clock.Now()
	}
	p := MakePayload(entry, anchorDate, lastUpdated, s.idgen)
	return p, s.Save(p)
}

// Load returns the persisted payload, or nil if none is stored.
// Unreadable data and storage errors are reported as absent. A payload in a
// legacy shape, under either key, is migrated, re-persisted in the current
// shape and returned. Unreadable data under the current key does not hide a
// readable legacy record.
func (s *SyncStore) Load() *model.DailyAnchorPayload {
	data, err := s.kv.Get(PayloadKey)
	if err != nil {
		s.logger.Warn("reading anchor payload failed", "key", PayloadKey, "error", err)
		return nil
	}
	if data != nil {
		p, err := decodePayload(data, s.clock.Now().Location())
		if err == nil {
			return &p
		}
		if rec, lerr := decodeLegacy(data); lerr == nil {
			return s.migrate(rec, PayloadKey)
		}
		s.logger.Warn("discarding unreadable anchor payload", "key", PayloadKey, "error", err)
	}

	data, err = s.kv.Get(LegacyPayloadKey)
	if err != nil {
		s.logger.Warn("reading legacy anchor payload failed", "key", LegacyPayloadKey, "error", err)
		return nil
	}
	if data == nil {
		return nil
	}
	rec, err := decodeLegacy(data)
	if err != nil {
		s.logger.Warn("discarding unreadable legacy anchor payload", "key", LegacyPayloadKey, "error", err)
		return nil
	}
	return s.migrate(rec, LegacyPayloadKey)
}

// migrate converts rec, writes it under PayloadKey and drops the legacy key
// it came from. A failed write still returns the migrated payload; the next
// Load retries.
func (s *SyncStore) migrate(rec legacyRecord, fromKey string) *model.DailyAnchorPayload {
	p := rec.migrate(s.clock.Now())
	if err := s.Save(p); err != nil {
		s.logger.Warn("re-persisting migrated anchor payload failed", "error", err)
		return &p
	}
	if fromKey != PayloadKey {
		if err := s.kv.Remove(fromKey); err != nil {
			s.logger.Warn("removing legacy anchor payload failed", "key", fromKey, "error", err)
		}
	}
	s.logger.Info("migrated legacy anchor payload", "ref", p.Reference, "from", fromKey)
	return &p
}

// Clear removes the persisted payload, including any legacy record.
func (s *SyncStore) Clear() error {
	if err := s.kv.Remove(PayloadKey); err != nil {
		return fmt.Errorf("clearing anchor payload: %w", err)
	}
	if err := s.kv.Remove(LegacyPayloadKey); err != nil {
		return fmt.Errorf("clearing legacy anchor payload: %w", err)
	}
	return nil
}

// FallbackPayload returns the default payload for anchorDate, stamped now.
func (s *SyncStore) FallbackPayload(anchorDate time.Time) model.DailyAnchorPayload {
	return FallbackPayload(anchorDate, s.clock.Now())
}

// LoadOrFallback returns the persisted payload, or saves and returns the
// fallback payload for today when nothing readable is stored.
func (s *SyncStore) LoadOrFallback() model.DailyAnchorPayload {
	if p := s.Load(); p != nil {
		return *p
	}
	fb := s.FallbackPayload(s.clock.Now())
	if err := s.Save(fb); err != nil {
		s.logger.Warn("saving fallback anchor payload failed", "error", err)
	} else {
		s.logger.Info("stored fallback anchor payload", "ref", fb.Reference)
	}
	return fb
}

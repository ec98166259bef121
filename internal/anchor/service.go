package anchor

import (
	"fmt"

	"steadfast/internal/model"
)

// Service is the daily refresh routine: it keeps the shared payload in step
// with the selector so the app, the widget and notifications show the same
// anchor for the same calendar day.
type Service struct {
	selector *Selector
	store    *SyncStore
	clock    Clock
	logger   Logger
}

// NewService creates a Service with the provided dependencies.
func NewService(selector *Selector, store *SyncStore, clock Clock, logger Logger) *Service {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Service{selector: selector, store: store, clock: clock, logger: logger}
}

// TodayAnchors returns count anchors for the current day.
func (s *Service) TodayAnchors(count int, focus *FocusFilter) []model.AnchorEntry {
	return s.selector.SelectAnchors(s.clock.Now(), count, focus)
}

// RefreshToday selects today's anchor and persists it.
// The payload is returned even if persisting fails.
func (s *Service) RefreshToday(focus *FocusFilter) (model.DailyAnchorPayload, error) {
	now := s.clock.Now()
	entry := s.selector.SelectSingleAnchor(now, focus)

	p, err := s.store.SaveEntry(entry, StartOfDay(now), now)
	if err != nil {
		return p, fmt.Errorf("persisting today's anchor: %w", err)
	}

	s.logger.Info("anchor refreshed", "ref", p.Reference, "anchor_date", p.AnchorDate.Format(anchorDateLayout))
	return p, nil
}

// EnsureToday returns the persisted payload if it belongs to today, and
// otherwise recomputes and persists today's anchor. A fallback written by
// another surface is replaced. Call on foreground and on date change.
func (s *Service) EnsureToday(focus *FocusFilter) (model.DailyAnchorPayload, error) {
	now := s.clock.Now()
	if p := s.store.Load(); p != nil && SameDay(now, p.AnchorDate) && !IsFallback(*p) {
		return *p, nil
	}
	return s.RefreshToday(focus)
}

// SetTodayAnchor persists a manually chosen anchor for today.
func (s *Service) SetTodayAnchor(ref, inhale, exhale string) (model.DailyAnchorPayload, error) {
	now := s.clock.Now()
	entry := model.AnchorEntry{Reference: ref, InhaleCue: inhale, ExhaleCue: exhale}

	p, err := s.store.SaveEntry(entry, StartOfDay(now), now)
	if err != nil {
		return p, fmt.Errorf("persisting manual anchor: %w", err)
	}

	s.logger.Info("anchor set manually", "ref", p.Reference)
	return p, nil
}

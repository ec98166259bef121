// Package widget provides the home-screen widget's timeline: the entry to
// show and when the host should ask again.
package widget

import (
	"fmt"
	"time"

	"steadfast/internal/anchor"
	"steadfast/internal/model"
)

const (
	// refreshAfterMidnight delays the daily refresh so the app has a chance to
	// write the new day's payload first.
	refreshAfterMidnight = 5 * time.Minute
	// refreshInterval bounds staleness within a day.
	refreshInterval = 30 * time.Minute
)

// Entry is what the widget renders.
type Entry struct {
	Date        time.Time  `json:"date"`
	Text        string     `json:"text"`
	Ref         string     `json:"ref"`
	Inhale      string     `json:"inhale"`
	Exhale      string     `json:"exhale"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Timeline is a list of entries plus the time after which the host should
// request a new timeline.
type Timeline struct {
	Entries   []Entry   `json:"entries"`
	RefreshAt time.Time `json:"refreshAt"`
}

// Provider reads the shared payload on behalf of the widget process.
type Provider struct {
	store *anchor.SyncStore
	clock anchor.Clock
}

// NewProvider creates a Provider over store.
func NewProvider(store *anchor.SyncStore, clock anchor.Clock) *Provider {
	if clock == nil {
		clock = anchor.RealClock{}
	}
	return &Provider{store: store, clock: clock}
}

// Placeholder is the static entry shown while the widget is being set up.
// It never touches storage.
func (p *Provider) Placeholder() Entry {
	return Entry{
		Date:   p.clock.Now(),
		Text:   "Cast all your anxiety on Him because He cares for you.",
		Ref:    "1 Peter 5:7",
		Inhale: "Cast all your care",
		Exhale: "for He cares for you",
	}
}

// Snapshot returns the current entry. When nothing readable is stored the
// fallback payload is saved and shown, so the app and the widget agree.
func (p *Provider) Snapshot() Entry {
	return entryFrom(p.store.LoadOrFallback())
}

// Timeline returns a single-entry timeline with the refresh policy applied.
func (p *Provider) Timeline() Timeline {
	return Timeline{
		Entries:   []Entry{p.Snapshot()},
		RefreshAt: NextRefresh(p.clock.Now()),
	}
}

// NextRefresh returns the earlier of five minutes past the next midnight and
// thirty minutes from now.
func NextRefresh(now time.Time) time.Time {
	y, m, d := now.Date()
	afterMidnight := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(refreshAfterMidnight)
	soon := now.Add(refreshInterval)
	if afterMidnight.Before(soon) {
		return afterMidnight
	}
	return soon
}

// InlineLine is the one-line rendering used on lock-screen inline slots.
func InlineLine(e Entry) string {
	return fmt.Sprintf("Inhale: %s  •  Exhale: %s", e.Inhale, e.Exhale)
}

func entryFrom(p model.DailyAnchorPayload) Entry {
	e := Entry{
		Date:   p.AnchorDate,
		Text:   p.DisplayText,
		Ref:    p.Reference,
		Inhale: p.InhalePhrase,
		Exhale: p.ExhalePhrase,
	}
	if !p.LastUpdated.IsZero() {
		updated := p.LastUpdated
		e.LastUpdated = &updated
	}
	return e
}

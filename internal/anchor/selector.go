package anchor

import (
	"time"

	"steadfast/internal/model"
)

// fallbackPackCount is how many packs are used when the focus areas resolve
// to none of the library's packs.
const fallbackPackCount = 4

// FallbackEntry is returned whenever the candidate set is empty.
var FallbackEntry = model.AnchorEntry{
	Reference: "Psalm 56:3",
	InhaleCue: "When I am afraid",
	ExhaleCue: "I put my trust in You",
}

// ContentSource supplies the candidates the Selector draws from.
type ContentSource interface {
	// Anchors returns the curated anchor list in catalog order.
	Anchors() []model.AnchorEntry

	// Packs returns all verse packs in library order.
	Packs() []model.VersePack

	// PackIDFor maps a focus area to its pack id.
	PackIDFor(area model.FocusArea) (string, bool)
}

// FocusFilter restricts selection to the packs matching a set of focus areas.
// A nil *FocusFilter means no filtering: the curated anchor list is used.
type FocusFilter struct {
	Areas []model.FocusArea
}

// NewFocusFilter returns a filter over the given areas.
func NewFocusFilter(areas ...model.FocusArea) *FocusFilter {
	return &FocusFilter{Areas: areas}
}

// Selector deterministically picks the anchors for a calendar day.
type Selector struct {
	source   ContentSource
	permuter Permuter
}

// NewSelector creates a Selector over source. If permuter is nil the
// XorShiftPermuter is used.
func NewSelector(source ContentSource, permuter Permuter) *Selector {
	if permuter == nil {
		permuter = XorShiftPermuter{}
	}
	return &Selector{source: source, permuter: permuter}
}

// SelectAnchors returns count anchors for date (at least one). The result
// depends only on date's year and day of year, the candidate list and count.
func (s *Selector) SelectAnchors(date time.Time, count int, focus *FocusFilter) []model.AnchorEntry {
	return SelectFrom(s.Candidates(focus), date, count, s.permuter)
}

// SelectSingleAnchor returns the anchor of the day.
func (s *Selector) SelectSingleAnchor(date time.Time, focus *FocusFilter) model.AnchorEntry {
	return s.SelectAnchors(date, 1, focus)[0]
}

// Candidates returns the list selection draws from for the given filter.
func (s *Selector) Candidates(focus *FocusFilter) []model.AnchorEntry {
	if focus == nil {
		return s.source.Anchors()
	}

	var candidates []model.AnchorEntry
	for _, p := range s.ResolvePacks(focus) {
		candidates = append(candidates, p.Verses...)
	}
	return candidates
}

// ResolvePacks maps the filter's focus areas to library packs, preserving
// library order. If nothing matches, the first fallbackPackCount packs are
// returned instead.
func (s *Selector) ResolvePacks(focus *FocusFilter) []model.VersePack {
	packs := s.source.Packs()

	wanted := make(map[string]bool)
	if focus != nil {
		for _, area := range focus.Areas {
			if id, ok := s.source.PackIDFor(area); ok {
				wanted[id] = true
			}
		}
	}

	var selected []model.VersePack
	for _, p := range packs {
		if wanted[p.ID] {
			selected = append(selected, p)
		}
	}
	if len(selected) > 0 {
		return selected
	}

	if len(packs) > fallbackPackCount {
		return packs[:fallbackPackCount]
	}
	return packs
}

// SelectFrom applies the daily rotation to an explicit candidate list.
// The list is permuted with the calendar year as seed, then read starting at
// the zero-based day of year, wrapping around. An empty list yields exactly
// one FallbackEntry regardless of count.
func SelectFrom(candidates []model.AnchorEntry, date time.Time, count int, permuter Permuter) []model.AnchorEntry {
	n := len(candidates)
	if n == 0 {
		return []model.AnchorEntry{FallbackEntry}
	}
	if permuter == nil {
		permuter = XorShiftPermuter{}
	}
	if count < 1 {
		count = 1
	}

	perm := permuter.Permute(n, int64(date.Year()))
	day := date.YearDay() - 1

	out := make([]model.AnchorEntry, count)
	for i := range out {
		out[i] = candidates[perm[(day+i)%n]]
	}
	return out
}

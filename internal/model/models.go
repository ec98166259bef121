package model

import "time"

// AnchorEntry is a single curated anchor: a scripture reference plus the
// hints a breathing UI needs to pace and label each breath.
type AnchorEntry struct {
	Reference        string // e.g. "Psalm 46:10"; stable identity key
	BodyText         string // full passage text, may be empty
	BreathInSeconds  *int   // inhale duration hint
	BreathOutSeconds *int   // exhale duration hint
	InhaleCue        string // overrides derived inhale phrase when non-empty
	ExhaleCue        string // overrides derived exhale phrase when non-empty
	AudioTrackName   string // ambient/narration asset filename
}

// DailyAnchorPayload is the resolved anchor for one calendar day, as shared
// between the app, the widget and the notification scheduler.
type DailyAnchorPayload struct {
	ID           string
	Reference    string
	DisplayText  string
	InhalePhrase string
	ExhalePhrase string
	AnchorDate   time.Time // start of day in the local calendar
	LastUpdated  time.Time // observability only, never used for selection
}

// Equal reports whether two payloads carry the same content for the same day.
// LastUpdated is ignored.
func (p DailyAnchorPayload) Equal(o DailyAnchorPayload) bool {
	return p.ID == o.ID &&
		p.Reference == o.Reference &&
		p.DisplayText == o.DisplayText &&
		p.InhalePhrase == o.InhalePhrase &&
		p.ExhalePhrase == o.ExhalePhrase &&
		p.AnchorDate.Equal(o.AnchorDate)
}

// FocusArea is a user-selectable concern category used to narrow which packs
// are eligible for daily selection.
type FocusArea string

const (
	FocusHealth  FocusArea = "health"
	FocusWorry   FocusArea = "worry"
	FocusPanic   FocusArea = "panic"
	FocusSleep   FocusArea = "sleep"
	FocusGrief   FocusArea = "grief"
	FocusGeneral FocusArea = "general"
)

// AllFocusAreas lists every known focus area in display order.
var AllFocusAreas = []FocusArea{FocusHealth, FocusWorry, FocusPanic, FocusSleep, FocusGrief, FocusGeneral}

// Reflection is a short guided prompt attached to a pack.
type Reflection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DurationSec int    `json:"durationSec"`
	Body        string `json:"body"`
}

// VersePack is a named, curated set of verses for one focus area.
type VersePack struct {
	ID                 string
	Title              string
	Description        string
	Verses             []AnchorEntry
	Reflections        []Reflection
	ReflectionHeader   string
	ReflectionSubtitle string
	ReflectionTokens   []string // short phrases pulsed by ambient UI
}

// PrayerPlan is an ordered list of prayer steps.
type PrayerPlan struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

// Library is the extended content collection: verse packs and prayer plans.
type Library struct {
	Packs       []VersePack
	PrayerPlans []PrayerPlan
}

package anchor

import (
	"fmt"
	"strings"
	"time"

	"steadfast/internal/model"
)

// Fallback content shown when there is no real verse to display.
const (
	FallbackReference = "Psalm 46:10"
	FallbackText      = "Be still, and know that I am God."
	FallbackInhale    = "Be still"
	FallbackExhale    = "Know that I am God."
)

// FallbackID identifies a stored fallback payload. The daily refresh treats
// such a payload as not yet computed.
const FallbackID = "fallback"

// BreathPhrases resolves the inhale/exhale display strings for an entry.
// Each side is resolved independently with the precedence:
// explicit cue, then the matching half of the body text split by word count,
// then a duration label ("Inhale 4s"), then the empty string.
// Every surface that labels a breath uses this.
func BreathPhrases(e model.AnchorEntry) (inhale, exhale string) {
	first, second := splitWords(e.BodyText)
	inhale = resolvePhrase(e.InhaleCue, first, e.BreathInSeconds, "Inhale")
	exhale = resolvePhrase(e.ExhaleCue, second, e.BreathOutSeconds, "Exhale")
	return inhale, exhale
}

func resolvePhrase(cue, textHalf string, seconds *int, label string) string {
	if c := strings.TrimSpace(cue); c != "" {
		return c
	}
	if textHalf != "" {
		return textHalf
	}
	if seconds != nil {
		return fmt.Sprintf("%s %ds", label, *seconds)
	}
	return ""
}

// splitWords halves text by word count. With an odd count the first half
// gets the extra word. Empty text yields two empty strings.
func splitWords(text string) (first, second string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "", ""
	}
	mid := (len(words) + 1) / 2
	return strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")
}

// MakePayload derives the persisted payload for entry on anchorDate.
// anchorDate is normalized to the start of its day. A blank reference gets a
// generated id and the fallback reference so the payload never has an empty key.
func MakePayload(e model.AnchorEntry, anchorDate, lastUpdated time.Time, idgen IDGenerator) model.DailyAnchorPayload {
	ref := strings.TrimSpace(e.Reference)
	id := ref
	if ref == "" {
		if idgen == nil {
			idgen = UUIDGenerator{}
		}
		id = idgen.New()
		ref = FallbackReference
	}

	inhale, exhale := BreathPhrases(e)
	return model.DailyAnchorPayload{
		ID:           id,
		Reference:    ref,
		DisplayText:  strings.TrimSpace(e.BodyText),
		InhalePhrase: inhale,
		ExhalePhrase: exhale,
		AnchorDate:   StartOfDay(anchorDate),
		LastUpdated:  lastUpdated,
	}
}

// IsFallback reports whether p is a fallback payload rather than a selected
// or manually set anchor.
func IsFallback(p model.DailyAnchorPayload) bool {
	return p.ID == FallbackID
}

// FallbackPayload returns the hardcoded default payload for anchorDate.
// It performs no I/O.
func FallbackPayload(anchorDate, lastUpdated time.Time) model.DailyAnchorPayload {
	return model.DailyAnchorPayload{
		ID:           FallbackID,
		Reference:    FallbackReference,
		DisplayText:  FallbackText,
		InhalePhrase: FallbackInhale,
		ExhalePhrase: FallbackExhale,
		AnchorDate:   StartOfDay(anchorDate),
		LastUpdated:  lastUpdated,
	}
}

package anchor_test

import (
	"testing"
	"time"

	"steadfast/internal/anchor"
	"steadfast/internal/model"
	"steadfast/internal/testutil"
)

func intp(v int) *int { return &v }

func TestBreathPhrases(t *testing.T) {
	tests := []struct {
		name       string
		entry      model.AnchorEntry
		wantInhale string
		wantExhale string
	}{
		{
			name:       "cues win",
			entry:      model.AnchorEntry{BodyText: "one two three", InhaleCue: "Be still", ExhaleCue: "Know", BreathInSeconds: intp(4)},
			wantInhale: "Be still",
			wantExhale: "Know",
		},
		{
			name:       "cues are trimmed",
			entry:      model.AnchorEntry{InhaleCue: "  Breathe in  ", ExhaleCue: "\tout\n"},
			wantInhale: "Breathe in",
			wantExhale: "out",
		},
		{
			name:       "odd word count gives first half the extra word",
			entry:      model.AnchorEntry{BodyText: "Cast all your anxiety on Him because He cares for you"},
			wantInhale: "Cast all your anxiety on Him",
			wantExhale: "because He cares for you",
		},
		{
			name:       "even word count splits evenly",
			entry:      model.AnchorEntry{BodyText: "Be  still and\nknow"},
			wantInhale: "Be still",
			wantExhale: "and know",
		},
		{
			name:       "single word leaves exhale to the next rule",
			entry:      model.AnchorEntry{BodyText: "Peace", BreathOutSeconds: intp(6)},
			wantInhale: "Peace",
			wantExhale: "Exhale 6s",
		},
		{
			name:       "durations",
			entry:      model.AnchorEntry{BreathInSeconds: intp(4), BreathOutSeconds: intp(6)},
			wantInhale: "Inhale 4s",
			wantExhale: "Exhale 6s",
		},
		{
			name:       "sides resolve independently",
			entry:      model.AnchorEntry{InhaleCue: "Lord", BreathOutSeconds: intp(8)},
			wantInhale: "Lord",
			wantExhale: "Exhale 8s",
		},
		{
			name:       "blank cue falls through to text",
			entry:      model.AnchorEntry{BodyText: "a b", InhaleCue: "   "},
			wantInhale: "a",
			wantExhale: "b",
		},
		{
			name: "nothing available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := anchor.BreathPhrases(tt.entry)
			if in != tt.wantInhale {
				t.Errorf("inhale = %q, want %q", in, tt.wantInhale)
			}
			if out != tt.wantExhale {
				t.Errorf("exhale = %q, want %q", out, tt.wantExhale)
			}
		})
	}
}

func TestMakePayload(t *testing.T) {
	at := time.Date(2025, time.March, 14, 18, 45, 0, 0, time.UTC)
	updated := at.Add(time.Minute)

	p := anchor.MakePayload(model.AnchorEntry{
		Reference: "  Psalm 23:1 ",
		BodyText:  "  The Lord is my shepherd  ",
		InhaleCue: "The Lord is my shepherd",
		ExhaleCue: "I lack nothing",
	}, at, updated, testutil.NewStubIDGenerator())

	want := model.DailyAnchorPayload{
		ID:           "Psalm 23:1",
		Reference:    "Psalm 23:1",
		DisplayText:  "The Lord is my shepherd",
		InhalePhrase: "The Lord is my shepherd",
		ExhalePhrase: "I lack nothing",
		AnchorDate:   time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
	}
	if !p.Equal(want) {
		t.Errorf("MakePayload() = %+v, want %+v", p, want)
	}
	if !p.LastUpdated.Equal(updated) {
		t.Errorf("LastUpdated = %v, want %v", p.LastUpdated, updated)
	}
}

func TestMakePayload_BlankReference(t *testing.T) {
	p := anchor.MakePayload(model.AnchorEntry{Reference: "   "}, time.Now(), time.Now(), testutil.NewStubIDGenerator())
	if p.ID != "gen-1" {
		t.Errorf("ID = %q, want gen-1", p.ID)
	}
	if p.Reference != anchor.FallbackReference {
		t.Errorf("Reference = %q, want %q", p.Reference, anchor.FallbackReference)
	}
}

func TestFallbackPayload(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	at := time.Date(2025, time.July, 4, 23, 59, 0, 0, loc)
	p := anchor.FallbackPayload(at, at)

	if p.Reference != "Psalm 46:10" || p.ID != anchor.FallbackID {
		t.Errorf("Reference/ID = %q/%q", p.Reference, p.ID)
	}
	if !anchor.IsFallback(p) {
		t.Error("IsFallback(fallback) = false")
	}
	if p.DisplayText != "Be still, and know that I am God." {
		t.Errorf("DisplayText = %q", p.DisplayText)
	}
	if p.InhalePhrase != "Be still" || p.ExhalePhrase != "Know that I am God." {
		t.Errorf("phrases = %q / %q", p.InhalePhrase, p.ExhalePhrase)
	}
	if !p.AnchorDate.Equal(time.Date(2025, time.July, 4, 0, 0, 0, 0, loc)) {
		t.Errorf("AnchorDate = %v", p.AnchorDate)
	}
}

func TestIsFallback_SelectedPayload(t *testing.T) {
	// A manual anchor on the fallback verse is still a real choice.
	e := model.AnchorEntry{Reference: anchor.FallbackReference, InhaleCue: "Be still", ExhaleCue: "Know that I am God."}
	p := anchor.MakePayload(e, time.Now(), time.Now(), nil)
	if anchor.IsFallback(p) {
		t.Errorf("IsFallback(%q) = true, want false", p.ID)
	}
}

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"steadfast/internal/model"
)

// verseRecord is the on-disk shape of a verse. It accepts every historical
// layout: breathIn/breathOut may hold a cue string or a duration in seconds,
// breathInSecs/breathOutSecs hold durations, and inhaleCue/exhaleCue hold
// cues that win over the legacy strings.
type verseRecord struct {
	Ref           string          `json:"ref"`
	Text          string          `json:"text,omitempty"`
	AudioFile     string          `json:"audioFile,omitempty"`
	BreathIn      json.RawMessage `json:"breathIn,omitempty"`
	BreathOut     json.RawMessage `json:"breathOut,omitempty"`
	BreathInSecs  *int            `json:"breathInSecs,omitempty"`
	BreathOutSecs *int            `json:"breathOutSecs,omitempty"`
	InhaleCue     string          `json:"inhaleCue,omitempty"`
	ExhaleCue     string          `json:"exhaleCue,omitempty"`
}

// breathField splits a legacy breathIn/breathOut value into a cue or a
// duration. Values of any other JSON type are ignored.
func breathField(raw json.RawMessage) (cue string, secs *int) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return "", &n
	}
	return "", nil
}

// firstCue returns the first candidate that is non-empty after trimming.
func firstCue(candidates ...string) string {
	for _, c := range candidates {
		if t := strings.TrimSpace(c); t != "" {
			return t
		}
	}
	return ""
}

func (r verseRecord) entry() (model.AnchorEntry, error) {
	if strings.TrimSpace(r.Ref) == "" {
		return model.AnchorEntry{}, fmt.Errorf("verse has no ref")
	}

	legacyInCue, legacyInSecs := breathField(r.BreathIn)
	legacyOutCue, legacyOutSecs := breathField(r.BreathOut)

	e := model.AnchorEntry{
		Reference:        r.Ref,
		BodyText:         r.Text,
		AudioTrackName:   r.AudioFile,
		InhaleCue:        firstCue(r.InhaleCue, legacyInCue),
		ExhaleCue:        firstCue(r.ExhaleCue, legacyOutCue),
		BreathInSeconds:  r.BreathInSecs,
		BreathOutSeconds: r.BreathOutSecs,
	}
	if e.BreathInSeconds == nil {
		e.BreathInSeconds = legacyInSecs
	}
	if e.BreathOutSeconds == nil {
		e.BreathOutSeconds = legacyOutSecs
	}
	return e, nil
}

// decodeVerse parses a single verse in any supported layout.
func decodeVerse(data []byte) (model.AnchorEntry, error) {
	var r verseRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return model.AnchorEntry{}, fmt.Errorf("decoding verse: %w", err)
	}
	return r.entry()
}

// EncodeVerse writes e in the layout older readers understand: cues under
// breathIn/breathOut and durations under breathInSecs/breathOutSecs.
func EncodeVerse(e model.AnchorEntry) ([]byte, error) {
	r := verseRecord{
		Ref:           e.Reference,
		Text:          e.BodyText,
		AudioFile:     e.AudioTrackName,
		BreathInSecs:  e.BreathInSeconds,
		BreathOutSecs: e.BreathOutSeconds,
	}
	var err error
	if e.InhaleCue != "" {
		if r.BreathIn, err = json.Marshal(e.InhaleCue); err != nil {
			return nil, err
		}
	}
	if e.ExhaleCue != "" {
		if r.BreathOut, err = json.Marshal(e.ExhaleCue); err != nil {
			return nil, err
		}
	}
	return json.Marshal(r)
}

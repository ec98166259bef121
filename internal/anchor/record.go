package anchor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"steadfast/internal/model"
)

const anchorDateLayout = "2006-01-02"

// appleEpoch is the reference date older clients encoded timestamps against
// (seconds since 2001-01-01T00:00:00Z).
var appleEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

var errNotCurrentShape = errors.New("payload is not in the current format")

// payloadRecord is the persisted JSON shape of a DailyAnchorPayload.
type payloadRecord struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	DisplayText  string    `json:"displayText"`
	InhalePhrase string    `json:"inhalePhrase"`
	ExhalePhrase string    `json:"exhalePhrase"`
	AnchorDate   string    `json:"anchorDate"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// legacyRecord covers the older, narrower shapes: {ref, inhale, exhale,
// lastUpdated}, optionally with id, text and a numeric anchorDate.
type legacyRecord struct {
	ID          string     `json:"id"`
	Ref         string     `json:"ref"`
	Text        string     `json:"text"`
	Inhale      string     `json:"inhale"`
	Exhale      string     `json:"exhale"`
	AnchorDate  legacyTime `json:"anchorDate"`
	LastUpdated legacyTime `json:"lastUpdated"`
}

// legacyTime accepts either an RFC 3339 string or a number of seconds since
// 2001-01-01 UTC.
type legacyTime struct {
	time.Time
}

func (t *legacyTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return fmt.Errorf("parsing legacy timestamp: %w", err)
		}
		t.Time = parsed
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("parsing legacy timestamp: %w", err)
	}
	t.Time = appleEpoch.Add(time.Duration(secs * float64(time.Second)))
	return nil
}

func encodePayload(p model.DailyAnchorPayload) ([]byte, error) {
	rec := payloadRecord{
		ID:           p.ID,
		Reference:    p.Reference,
		DisplayText:  p.DisplayText,
		InhalePhrase: p.InhalePhrase,
		ExhalePhrase: p.ExhalePhrase,
		AnchorDate:   p.AnchorDate.Format(anchorDateLayout),
		LastUpdated:  p.LastUpdated,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding anchor payload: %w", err)
	}
	return data, nil
}

// decodePayload parses the current format. anchorDate is interpreted as a
// calendar day in loc.
func decodePayload(data []byte, loc *time.Location) (model.DailyAnchorPayload, error) {
	var rec payloadRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.DailyAnchorPayload{}, fmt.Errorf("decoding anchor payload: %w", err)
	}
	if rec.Reference == "" || rec.AnchorDate == "" {
		return model.DailyAnchorPayload{}, errNotCurrentShape
	}

	day, err := time.ParseInLocation(anchorDateLayout, rec.AnchorDate, loc)
	if err != nil {
		return model.DailyAnchorPayload{}, fmt.Errorf("parsing anchor date: %w", err)
	}

	id := rec.ID
	if id == "" {
		id = rec.Reference
	}
	return model.DailyAnchorPayload{
		ID:           id,
		Reference:    rec.Reference,
		DisplayText:  rec.DisplayText,
		InhalePhrase: rec.InhalePhrase,
		ExhalePhrase: rec.ExhalePhrase,
		AnchorDate:   day,
		LastUpdated:  rec.LastUpdated,
	}, nil
}

func decodeLegacy(data []byte) (legacyRecord, error) {
	var rec legacyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return legacyRecord{}, fmt.Errorf("decoding legacy payload: %w", err)
	}
	if strings.TrimSpace(rec.Ref) == "" {
		return legacyRecord{}, errors.New("legacy payload has no reference")
	}
	return rec, nil
}

// migrate maps a legacy record into the current shape. Records without an
// anchor date are assigned today.
func (rec legacyRecord) migrate(today time.Time) model.DailyAnchorPayload {
	ref := strings.TrimSpace(rec.Ref)
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		id = ref
	}
	day := StartOfDay(today)
	if !rec.AnchorDate.IsZero() {
		day = StartOfDay(rec.AnchorDate.In(today.Location()))
	}
	return model.DailyAnchorPayload{
		ID:           id,
		Reference:    ref,
		DisplayText:  strings.TrimSpace(rec.Text),
		InhalePhrase: rec.Inhale,
		ExhalePhrase: rec.Exhale,
		AnchorDate:   day,
		LastUpdated:  rec.LastUpdated.Time,
	}
}

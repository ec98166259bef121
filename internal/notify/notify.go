// Package notify composes the local notifications that surface the anchor
// of the day and the daily check-ins. It only plans; delivery belongs to the
// host platform.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"steadfast/internal/anchor"
	"steadfast/internal/config"
	"steadfast/internal/model"
)

// AnchorTitle is the title of the anchor-of-the-day notification.
const AnchorTitle = "Anchor Verse of the Day"

// AnchorID identifies the single pending anchor notification. Scheduling
// again replaces it.
const AnchorID = "steadfast.anchor.verse.11am"

// Routes carried in a notification's payload for deep-linking.
const (
	RouteAnchor  = "anchor"
	RouteMorning = "morning"
	RouteMidday  = "midday"
	RouteEvening = "evening"
)

// Notification is one planned local notification.
type Notification struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Route   string    `json:"route"`
	FireAt  time.Time `json:"fireAt"`  // next delivery
	Repeats bool      `json:"repeats"` // daily at FireAt's wall-clock time
}

type checkin struct {
	id    string
	title string
	body  string
	route string
}

var (
	morningCheckin = checkin{"steadfast.morning.checkin", "Good Morning ☀️", "Take a moment with today’s verse and a breath.", RouteMorning}
	middayCheckin  = checkin{"steadfast.midday.checkin", "Got a sec for Midday reset?", "🙏 Pause, breathe, and cast your cares.", RouteMidday}
	eveningCheckin = checkin{"steadfast.evening.checkin", "Evening wind-down 🌜", "Lay it down and rest in GOD’s care.", RouteEvening}
)

// fallbackLine is the body used when there is no payload to describe.
var fallbackLine = quote(anchor.FallbackText) + " — " + anchor.FallbackReference

// AnchorBanner builds the title and body for the anchor notification from
// the persisted payload. p may be nil.
func AnchorBanner(p *model.DailyAnchorPayload) (title, body string) {
	title = AnchorTitle
	if p == nil {
		return title, fallbackLine
	}

	text := strings.TrimSpace(p.DisplayText)
	ref := strings.TrimSpace(p.Reference)

	if text != "" {
		return title, withRef(quote(text), ref)
	}

	var parts []string
	for _, s := range []string{p.InhalePhrase, p.ExhalePhrase} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		return title, withRef(quote(strings.Join(parts, " / ")), ref)
	}

	if ref != "" {
		return title, ref
	}
	return title, fallbackLine
}

func quote(s string) string { return "“" + s + "”" }

func withRef(line, ref string) string {
	if ref == "" {
		return line
	}
	return line + " — " + ref
}

// NextOccurrence returns the next hour:minute in now's location: today if
// still ahead of now, otherwise tomorrow.
func NextOccurrence(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(y, m, d+1, hour, minute, 0, 0, now.Location())
	}
	return next
}

// ParseClock parses a "HH:MM" wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	if hour, err = strconv.Atoi(h); err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	if minute, err = strconv.Atoi(m); err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// Scheduler plans notifications from the user's settings.
type Scheduler struct {
	cfg   config.NotificationConfig
	clock anchor.Clock
}

// NewScheduler creates a Scheduler. A nil clock uses the real clock.
func NewScheduler(cfg config.NotificationConfig, clock anchor.Clock) *Scheduler {
	if clock == nil {
		clock = anchor.RealClock{}
	}
	return &Scheduler{cfg: cfg, clock: clock}
}

// AnchorPlan returns the single-shot anchor notification for the next
// configured time, or nothing when notifications are disabled. The body is
// composed from p at planning time; it is not refreshed before delivery.
func (s *Scheduler) AnchorPlan(p *model.DailyAnchorPayload) ([]Notification, error) {
	if !s.cfg.Enabled {
		return nil, nil
	}
	if s.cfg.AnchorHour < 0 || s.cfg.AnchorHour > 23 || s.cfg.AnchorMinute < 0 || s.cfg.AnchorMinute > 59 {
		return nil, fmt.Errorf("invalid anchor time %02d:%02d", s.cfg.AnchorHour, s.cfg.AnchorMinute)
	}

	title, body := AnchorBanner(p)
	return []Notification{{
		ID:     AnchorID,
		Title:  title,
		Body:   body,
		Route:  RouteAnchor,
		FireAt: NextOccurrence(s.clock.Now(), s.cfg.AnchorHour, s.cfg.AnchorMinute),
	}}, nil
}

// CheckinPlans returns the enabled daily check-ins, in morning, midday,
// evening order.
func (s *Scheduler) CheckinPlans() ([]Notification, error) {
	if !s.cfg.Enabled {
		return nil, nil
	}

	slots := []struct {
		enabled bool
		at      string
		c       checkin
	}{
		{s.cfg.MorningEnabled, s.cfg.Morning, morningCheckin},
		{s.cfg.MiddayEnabled, s.cfg.Midday, middayCheckin},
		{s.cfg.EveningEnabled, s.cfg.Evening, eveningCheckin},
	}

	now := s.clock.Now()
	var plans []Notification
	for _, slot := range slots {
		if !slot.enabled {
			continue
		}
		hour, minute, err := ParseClock(slot.at)
		if err != nil {
			return nil, fmt.Errorf("%s check-in: %w", slot.c.route, err)
		}
		plans = append(plans, Notification{
			ID:      slot.c.id,
			Title:   slot.c.title,
			Body:    slot.c.body,
			Route:   slot.c.route,
			FireAt:  NextOccurrence(now, hour, minute),
			Repeats: true,
		})
	}
	return plans, nil
}

// Plan returns the anchor notification followed by the check-ins.
func (s *Scheduler) Plan(p *model.DailyAnchorPayload) ([]Notification, error) {
	plans, err := s.AnchorPlan(p)
	if err != nil {
		return nil, err
	}
	checkins, err := s.CheckinPlans()
	if err != nil {
		return nil, err
	}
	return append(plans, checkins...), nil
}

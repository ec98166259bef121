package notify

import (
	"testing"
	"time"

	"steadfast/internal/config"
	"steadfast/internal/model"
	"steadfast/internal/testutil"
)

func TestAnchorBanner(t *testing.T) {
	tests := []struct {
		name    string
		payload *model.DailyAnchorPayload
		want    string
	}{
		{
			name:    "nil payload",
			payload: nil,
			want:    "“Be still, and know that I am God.” — Psalm 46:10",
		},
		{
			name:    "display text",
			payload: &model.DailyAnchorPayload{Reference: "1 Peter 5:7", DisplayText: " Cast all your anxiety on Him ", InhalePhrase: "x"},
			want:    "“Cast all your anxiety on Him” — 1 Peter 5:7",
		},
		{
			name:    "phrases",
			payload: &model.DailyAnchorPayload{Reference: "Psalm 56:3", InhalePhrase: "When I am afraid", ExhalePhrase: "I put my trust in You"},
			want:    "“When I am afraid / I put my trust in You” — Psalm 56:3",
		},
		{
			name:    "one phrase",
			payload: &model.DailyAnchorPayload{Reference: "Psalm 56:3", ExhalePhrase: "I put my trust in You"},
			want:    "“I put my trust in You” — Psalm 56:3",
		},
		{
			name:    "text without ref",
			payload: &model.DailyAnchorPayload{DisplayText: "Peace"},
			want:    "“Peace”",
		},
		{
			name:    "ref only",
			payload: &model.DailyAnchorPayload{Reference: " John 14:27 "},
			want:    "John 14:27",
		},
		{
			name:    "empty payload",
			payload: &model.DailyAnchorPayload{},
			want:    "“Be still, and know that I am God.” — Psalm 46:10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := AnchorBanner(tt.payload)
			if title != "Anchor Verse of the Day" {
				t.Errorf("title = %q", title)
			}
			if body != tt.want {
				t.Errorf("body = %q, want %q", body, tt.want)
			}
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, 3, 14, 9, 30, 0, 0, loc),
			want: time.Date(2025, 3, 14, 11, 0, 0, 0, loc),
		},
		{
			name: "exactly now rolls to tomorrow",
			now:  time.Date(2025, 3, 14, 11, 0, 0, 0, loc),
			want: time.Date(2025, 3, 15, 11, 0, 0, 0, loc),
		},
		{
			name: "already passed",
			now:  time.Date(2025, 3, 14, 11, 0, 1, 0, loc),
			want: time.Date(2025, 3, 15, 11, 0, 0, 0, loc),
		},
		{
			name: "month end",
			now:  time.Date(2025, 12, 31, 23, 0, 0, 0, loc),
			want: time.Date(2026, 1, 1, 11, 0, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextOccurrence(tt.now, 11, 0); !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		h, m    int
		wantErr bool
	}{
		{in: "08:00", h: 8},
		{in: "21:45", h: 21, m: 45},
		{in: " 7:05 ", h: 7, m: 5},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock() error = %v", err)
			}
			if h != tt.h || m != tt.m {
				t.Errorf("ParseClock() = %d:%d, want %d:%d", h, m, tt.h, tt.m)
			}
		})
	}
}

func TestScheduler_AnchorPlan(t *testing.T) {
	clock := testutil.FixedClock() // 09:30 UTC
	s := NewScheduler(config.DefaultNotifications(), clock)

	p := &model.DailyAnchorPayload{Reference: "Isaiah 41:10", InhalePhrase: "Fear not", ExhalePhrase: "I am with you"}
	plans, err := s.AnchorPlan(p)
	if err != nil {
		t.Fatalf("AnchorPlan() error = %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("len = %d, want 1", len(plans))
	}
	n := plans[0]
	if n.ID != AnchorID || n.Route != RouteAnchor || n.Repeats {
		t.Errorf("plan = %+v", n)
	}
	if want := time.Date(2025, 3, 14, 11, 0, 0, 0, time.UTC); !n.FireAt.Equal(want) {
		t.Errorf("FireAt = %v, want %v", n.FireAt, want)
	}
	if n.Body != "“Fear not / I am with you” — Isaiah 41:10" {
		t.Errorf("Body = %q", n.Body)
	}

	clock.Advance(3 * time.Hour)
	plans, _ = s.AnchorPlan(p)
	if want := time.Date(2025, 3, 15, 11, 0, 0, 0, time.UTC); !plans[0].FireAt.Equal(want) {
		t.Errorf("after 11:00 FireAt = %v, want %v", plans[0].FireAt, want)
	}
}

func TestScheduler_CustomAnchorTime(t *testing.T) {
	cfg := config.DefaultNotifications()
	cfg.AnchorHour, cfg.AnchorMinute = 7, 15
	plans, err := NewScheduler(cfg, testutil.FixedClock()).AnchorPlan(nil)
	if err != nil {
		t.Fatalf("AnchorPlan() error = %v", err)
	}
	if want := time.Date(2025, 3, 15, 7, 15, 0, 0, time.UTC); !plans[0].FireAt.Equal(want) {
		t.Errorf("FireAt = %v, want %v", plans[0].FireAt, want)
	}

	cfg.AnchorHour = 25
	if _, err := NewScheduler(cfg, testutil.FixedClock()).AnchorPlan(nil); err == nil {
		t.Error("expected error for hour 25")
	}
}

func TestScheduler_Disabled(t *testing.T) {
	cfg := config.DefaultNotifications()
	cfg.Enabled = false
	s := NewScheduler(cfg, testutil.FixedClock())

	plans, err := s.Plan(&model.DailyAnchorPayload{Reference: "Psalm 23:1"})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("Plan() = %+v, want empty", plans)
	}
}

func TestScheduler_CheckinPlans(t *testing.T) {
	s := NewScheduler(config.DefaultNotifications(), testutil.FixedClock())

	plans, err := s.CheckinPlans()
	if err != nil {
		t.Fatalf("CheckinPlans() error = %v", err)
	}

	want := []struct {
		route  string
		title  string
		fireAt time.Time
	}{
		{RouteMorning, "Good Morning ☀️", time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)},
		{RouteMidday, "Got a sec for Midday reset?", time.Date(2025, 3, 14, 13, 0, 0, 0, time.UTC)},
		{RouteEvening, "Evening wind-down 🌜", time.Date(2025, 3, 14, 21, 0, 0, 0, time.UTC)},
	}
	if len(plans) != len(want) {
		t.Fatalf("len = %d, want %d", len(plans), len(want))
	}
	for i, w := range want {
		p := plans[i]
		if p.Route != w.route || p.Title != w.title || !p.Repeats {
			t.Errorf("plans[%d] = %+v", i, p)
		}
		if !p.FireAt.Equal(w.fireAt) {
			t.Errorf("plans[%d].FireAt = %v, want %v", i, p.FireAt, w.fireAt)
		}
	}
}

func TestScheduler_CheckinSlots(t *testing.T) {
	cfg := config.DefaultNotifications()
	cfg.MiddayEnabled = false
	cfg.Evening = "22:30"

	plans, err := NewScheduler(cfg, testutil.FixedClock()).CheckinPlans()
	if err != nil {
		t.Fatalf("CheckinPlans() error = %v", err)
	}
	if len(plans) != 2 || plans[0].Route != RouteMorning || plans[1].Route != RouteEvening {
		t.Fatalf("plans = %+v", plans)
	}
	if plans[1].FireAt.Hour() != 22 || plans[1].FireAt.Minute() != 30 {
		t.Errorf("evening FireAt = %v", plans[1].FireAt)
	}

	cfg.Morning = "8am"
	if _, err := NewScheduler(cfg, testutil.FixedClock()).CheckinPlans(); err == nil {
		t.Error("expected error for bad morning time")
	}
}

func TestScheduler_Plan(t *testing.T) {
	plans, err := NewScheduler(config.DefaultNotifications(), testutil.FixedClock()).Plan(nil)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plans) != 4 || plans[0].ID != AnchorID {
		t.Errorf("Plan() = %+v", plans)
	}
}

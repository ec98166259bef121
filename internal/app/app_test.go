package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"steadfast/internal/anchor"
	"steadfast/internal/catalog"
	"steadfast/internal/config"
	"steadfast/internal/testutil"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.NewConfig("device-1", base)
	cfg.Store.FSRoot = filepath.Join(base, "shared")
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, clock anchor.Clock) *App {
	t.Helper()
	a, err := NewApp(context.Background(), cfg, "test", Options{Clock: clock})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_SyncSharedWithWidget(t *testing.T) {
	cfg := newTestConfig(t)
	clock := testutil.FixedClock()

	phone := newTestApp(t, cfg, clock)
	p, err := phone.Sync()
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	want := anchor.NewSelector(catalog.Default(), nil).SelectSingleAnchor(clock.Now(), nil)
	if p.Reference != want.Reference {
		t.Errorf("Sync() reference = %q, want %q", p.Reference, want.Reference)
	}

	// A second process over the same directory sees the same anchor.
	widgetProc := newTestApp(t, cfg, clock)
	tl := widgetProc.WidgetTimeline()
	if got := tl.Entries[0].Ref; got != p.Reference {
		t.Errorf("widget ref = %q, want %q", got, p.Reference)
	}

	plans, err := widgetProc.NotificationPlan()
	if err != nil {
		t.Fatalf("NotificationPlan() error = %v", err)
	}
	if len(plans) == 0 || plans[0].Route != "anchor" {
		t.Fatalf("plans = %+v", plans)
	}
	wantBody := "“" + p.InhalePhrase + " / " + p.ExhalePhrase + "” — " + p.Reference
	if plans[0].Body != wantBody {
		t.Errorf("notification body = %q, want %q", plans[0].Body, wantBody)
	}
}

func TestApp_WidgetBeforeSync(t *testing.T) {
	cfg := newTestConfig(t)
	clock := testutil.FixedClock()

	widgetProc := newTestApp(t, cfg, clock)
	if got := widgetProc.WidgetTimeline().Entries[0].Ref; got != anchor.FallbackReference {
		t.Fatalf("widget ref on fresh install = %q, want %q", got, anchor.FallbackReference)
	}

	phone := newTestApp(t, cfg, clock)
	p, err := phone.Sync()
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	want := anchor.NewSelector(catalog.Default(), nil).SelectSingleAnchor(clock.Now(), nil)
	if p.Reference != want.Reference {
		t.Errorf("Sync() reference = %q, want %q", p.Reference, want.Reference)
	}

	if got := widgetProc.WidgetTimeline().Entries[0].Ref; got != want.Reference {
		t.Errorf("widget ref after sync = %q, want %q", got, want.Reference)
	}
}

func TestApp_SetShowClear(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Store = config.StoreConfig{Type: "memory", Encryption: config.EncryptionConfig{Type: "test"}}
	a := newTestApp(t, cfg, testutil.FixedClock())

	if got := a.Show(); got != nil {
		t.Fatalf("Show() on empty store = %+v", got)
	}

	if _, err := a.SetAnchor("Psalm 121:1-2", "I lift my eyes", "My help comes from the Lord"); err != nil {
		t.Fatalf("SetAnchor() error = %v", err)
	}
	got := a.Show()
	if got == nil || got.Reference != "Psalm 121:1-2" {
		t.Fatalf("Show() = %+v", got)
	}

	// Sync keeps a same-day manual choice.
	synced, err := a.Sync()
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if synced.Reference != "Psalm 121:1-2" {
		t.Errorf("Sync() replaced manual anchor with %q", synced.Reference)
	}

	if err := a.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := a.Show(); got != nil {
		t.Errorf("Show() after Clear = %+v", got)
	}
}

func TestApp_FocusAreas(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Store = config.StoreConfig{Type: "memory"}
	cfg.Profile = config.ProfileConfig{FocusAreas: []string{"sleep"}, UseFocusAreas: true}
	a := newTestApp(t, cfg, testutil.FixedClock())

	pack, _ := a.Catalog().Pack("night-peace")
	inPack := make(map[string]bool)
	for _, v := range pack.Verses {
		inPack[v.Reference] = true
	}

	p, err := a.Refresh()
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !inPack[p.Reference] {
		t.Errorf("Refresh() picked %q outside night-peace", p.Reference)
	}
	entries, err := a.AnchorsFor(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 3)
	if err != nil {
		t.Fatalf("AnchorsFor() error = %v", err)
	}
	for _, e := range entries {
		if !inPack[e.Reference] {
			t.Errorf("AnchorsFor() picked %q outside night-peace", e.Reference)
		}
	}
}

func TestApp_AnchorCount(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Store = config.StoreConfig{Type: "memory"}
	a := newTestApp(t, cfg, testutil.FixedClock())

	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{name: "one", count: 1},
		{name: "a full year", count: MaxAnchorCount},
		{name: "zero", count: 0, wantErr: true},
		{name: "negative", count: -3, wantErr: true},
		{name: "past a year", count: MaxAnchorCount + 1, wantErr: true},
		{name: "huge", count: 1 << 40, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.TodayAnchors(tt.count)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TodayAnchors(%d) error = %v, wantErr %v", tt.count, err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.count {
				t.Errorf("len = %d, want %d", len(got), tt.count)
			}
			if _, err := a.AnchorsFor(a.Now(), tt.count); (err != nil) != tt.wantErr {
				t.Errorf("AnchorsFor(%d) error = %v, wantErr %v", tt.count, err, tt.wantErr)
			}
		})
	}
}

func TestApp_Fallback(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Store = config.StoreConfig{Type: "memory"}
	a := newTestApp(t, cfg, testutil.FixedClock())

	fb := a.Fallback()
	if fb.Reference != "Psalm 46:10" {
		t.Errorf("Fallback() = %+v", fb)
	}
	if a.Show() != nil {
		t.Error("Fallback() persisted a payload")
	}
}

func TestNewApp_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown store", func(c *config.Config) { c.Store.Type = "tape" }},
		{"unknown encryption", func(c *config.Config) { c.Store.Encryption.Type = "rot13" }},
		{"age without keys", func(c *config.Config) { c.Store.Encryption.Type = "age" }},
		{"bad focus area", func(c *config.Config) {
			c.Profile = config.ProfileConfig{FocusAreas: []string{"joy"}, UseFocusAreas: true}
		}},
		{"bad timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus_Mons" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t)
			tt.mutate(cfg)
			var clock anchor.Clock
			if cfg.Timezone == "" {
				clock = testutil.FixedClock()
			}
			if a, err := NewApp(context.Background(), cfg, "test", Options{Clock: clock}); err == nil {
				a.Close()
				t.Error("NewApp() expected error")
			}
		})
	}
}

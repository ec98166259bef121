package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"steadfast/internal/anchor"
	"steadfast/internal/catalog"
	"steadfast/internal/config"
	"steadfast/internal/encryption"
	"steadfast/internal/kv"
	"steadfast/internal/model"
	"steadfast/internal/notify"
	"steadfast/internal/widget"
)

// App is the layer between the CLI and the anchor domain. It builds every
// dependency from config and owns their lifecycle.
type App struct {
	cfg       *config.Config
	clock     anchor.Clock
	store     anchor.KeyValue
	catalog   *catalog.Catalog
	selector  *anchor.Selector
	sync      *anchor.SyncStore
	service   *anchor.Service
	scheduler *notify.Scheduler
	widget    *widget.Provider
	focus     *anchor.FocusFilter
	logger    *slogAdapter
	run       *Run
	logFile   *os.File
}

// Options carries values that do not belong in the config file.
type Options struct {
	// Passphrase unlocks a protected age private key.
	Passphrase string
	// Clock overrides the wall clock, for tests.
	Clock anchor.Clock
}

// NewApp creates a fully wired App from cfg. command names the CLI command
// being run. The caller must call Close.
func NewApp(ctx context.Context, cfg *config.Config, command string, opts Options) (*App, error) {
	clock := opts.Clock
	if clock == nil {
		loc, err := loadLocation(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		clock = anchor.RealClock{Loc: loc}
	}

	focus, err := focusFilter(cfg.Profile)
	if err != nil {
		return nil, err
	}

	run := NewRun(command, clock.Now())
	logger, logFile, err := newLogger(cfg.LogDir, run.ID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	sealer, err := encryption.NewSealerFromConfig(cfg.Store.Encryption, opts.Passphrase)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating sealer: %w", err)
	}

	store, err := kv.NewKeyValueFromConfig(ctx, cfg.Store, sealer)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening shared store: %w", err)
	}

	cat := catalog.Default()
	selector := anchor.NewSelector(cat, nil)
	syncStore := anchor.NewSyncStore(store, clock, anchor.UUIDGenerator{}, log)

	log.Debug("run started", "command", command, "store", cfg.Store.Type, "encryption", cfg.Store.Encryption.Type)

	return &App{
		cfg:       cfg,
		clock:     clock,
		store:     store,
		catalog:   cat,
		selector:  selector,
		sync:      syncStore,
		service:   anchor.NewService(selector, syncStore, clock, log),
		scheduler: notify.NewScheduler(cfg.Notifications, clock),
		widget:    widget.NewProvider(syncStore, clock),
		focus:     focus,
		logger:    log,
		run:       run,
		logFile:   logFile,
	}, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

// focusFilter returns nil unless focus-area selection is switched on.
func focusFilter(p config.ProfileConfig) (*anchor.FocusFilter, error) {
	if !p.UseFocusAreas {
		return nil, nil
	}
	areas, err := catalog.ParseFocusAreas(p.FocusAreas)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return anchor.NewFocusFilter(areas...), nil
}

// Catalog returns the content catalog.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Now returns the current time in the configured zone.
func (a *App) Now() time.Time { return a.clock.Now() }

// MaxAnchorCount bounds how many anchors one listing may request: a full
// year of the rotation.
const MaxAnchorCount = 366

func checkAnchorCount(count int) error {
	if count < 1 || count > MaxAnchorCount {
		return fmt.Errorf("anchor count %d out of range 1..%d", count, MaxAnchorCount)
	}
	return nil
}

// TodayAnchors returns count anchors for today without persisting anything.
func (a *App) TodayAnchors(count int) ([]model.AnchorEntry, error) {
	if err := checkAnchorCount(count); err != nil {
		return nil, err
	}
	return a.service.TodayAnchors(count, a.focus), nil
}

// AnchorsFor returns count anchors for date without persisting anything.
func (a *App) AnchorsFor(date time.Time, count int) ([]model.AnchorEntry, error) {
	if err := checkAnchorCount(count); err != nil {
		return nil, err
	}
	return a.selector.SelectAnchors(date, count, a.focus), nil
}

// Sync makes sure the shared payload is today's anchor.
func (a *App) Sync() (model.DailyAnchorPayload, error) {
	return a.fail(a.service.EnsureToday(a.focus))
}

// Refresh recomputes and persists today's anchor unconditionally.
func (a *App) Refresh() (model.DailyAnchorPayload, error) {
	return a.fail(a.service.RefreshToday(a.focus))
}

// SetAnchor persists a manually chosen anchor for today.
func (a *App) SetAnchor(ref, inhale, exhale string) (model.DailyAnchorPayload, error) {
	return a.fail(a.service.SetTodayAnchor(ref, inhale, exhale))
}

// Show returns the persisted payload, or nil.
func (a *App) Show() *model.DailyAnchorPayload {
	return a.sync.Load()
}

// Clear removes the persisted payload.
func (a *App) Clear() error {
	if err := a.sync.Clear(); err != nil {
		a.run.Fail()
		return err
	}
	a.logger.Info("anchor payload cleared")
	return nil
}

// Fallback returns the default payload for today without touching storage.
func (a *App) Fallback() model.DailyAnchorPayload {
	return a.sync.FallbackPayload(a.clock.Now())
}

// WidgetTimeline returns what the widget would render now.
func (a *App) WidgetTimeline() widget.Timeline {
	return a.widget.Timeline()
}

// WidgetPlaceholder returns the widget's static placeholder entry.
func (a *App) WidgetPlaceholder() widget.Entry {
	return a.widget.Placeholder()
}

// NotificationPlan returns the notifications that would be scheduled now,
// composed from the persisted payload.
func (a *App) NotificationPlan() ([]notify.Notification, error) {
	plans, err := a.scheduler.Plan(a.sync.Load())
	if err != nil {
		a.run.Fail()
		return nil, fmt.Errorf("planning notifications: %w", err)
	}
	return plans, nil
}

func (a *App) fail(p model.DailyAnchorPayload, err error) (model.DailyAnchorPayload, error) {
	if err != nil {
		a.run.Fail()
	}
	return p, err
}

// Close records the run outcome and releases the store and log file.
func (a *App) Close() error {
	var firstErr error

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing shared store: %w", err)
	}

	a.logger.Debug("run finished",
		"command", a.run.Command,
		"status", a.run.Status,
		"elapsed", a.run.Elapsed(a.clock.Now()))

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}

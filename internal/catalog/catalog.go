// Package catalog holds the curated anchor list and the verse pack library.
// Both are immutable once loaded.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"steadfast/internal/anchor"
	"steadfast/internal/model"
)

//go:embed data/anchors.json
var anchorsJSON []byte

//go:embed data/library.json
var libraryJSON []byte

// focusPacks maps each focus area to the pack that serves it.
var focusPacks = map[model.FocusArea]string{
	model.FocusHealth:  "health-anxiety",
	model.FocusPanic:   "panic-fear",
	model.FocusSleep:   "night-peace",
	model.FocusWorry:   "daily-worry",
	model.FocusGrief:   "daily-worry",
	model.FocusGeneral: "health-anxiety",
}

// Catalog is the read-only content set the selector draws from.
type Catalog struct {
	anchors []model.AnchorEntry
	library model.Library
}

var _ anchor.ContentSource = (*Catalog)(nil)

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from the embedded content.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(anchorsJSON, libraryJSON)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// New builds a catalog from already-decoded content.
func New(anchors []model.AnchorEntry, library model.Library) *Catalog {
	return &Catalog{
		anchors: append([]model.AnchorEntry(nil), anchors...),
		library: library,
	}
}

type packRecord struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Verses             []verseRecord      `json:"verses"`
	Reflections        []model.Reflection `json:"reflections"`
	ReflectionHeader   string             `json:"reflectionHeader,omitempty"`
	ReflectionSubtitle string             `json:"reflectionSubtitle,omitempty"`
	ReflectionTokens   []string           `json:"reflectionTokens,omitempty"`
}

type libraryRecord struct {
	Packs       []packRecord       `json:"packs"`
	PrayerPlans []model.PrayerPlan `json:"prayerPlans"`
}

// Load decodes an anchor list and a library. libraryData may be empty, in
// which case the catalog has no packs.
func Load(anchorsData, libraryData []byte) (*Catalog, error) {
	var records []verseRecord
	if err := json.Unmarshal(anchorsData, &records); err != nil {
		return nil, fmt.Errorf("decoding anchors: %w", err)
	}
	anchors := make([]model.AnchorEntry, 0, len(records))
	for i, r := range records {
		e, err := r.entry()
		if err != nil {
			return nil, fmt.Errorf("anchor %d: %w", i, err)
		}
		anchors = append(anchors, e)
	}

	var lib model.Library
	if len(libraryData) > 0 {
		var lr libraryRecord
		if err := json.Unmarshal(libraryData, &lr); err != nil {
			return nil, fmt.Errorf("decoding library: %w", err)
		}
		for _, pr := range lr.Packs {
			pack := model.VersePack{
				ID:                 pr.ID,
				Title:              pr.Title,
				Description:        pr.Description,
				Reflections:        pr.Reflections,
				ReflectionHeader:   pr.ReflectionHeader,
				ReflectionSubtitle: pr.ReflectionSubtitle,
				ReflectionTokens:   pr.ReflectionTokens,
			}
			for i, vr := range pr.Verses {
				e, err := vr.entry()
				if err != nil {
					return nil, fmt.Errorf("pack %s verse %d: %w", pr.ID, i, err)
				}
				pack.Verses = append(pack.Verses, e)
			}
			lib.Packs = append(lib.Packs, pack)
		}
		lib.PrayerPlans = lr.PrayerPlans
	}

	return &Catalog{anchors: anchors, library: lib}, nil
}

// Anchors returns the curated anchor list in catalog order.
func (c *Catalog) Anchors() []model.AnchorEntry {
	return append([]model.AnchorEntry(nil), c.anchors...)
}

// Packs returns the verse packs in library order.
func (c *Catalog) Packs() []model.VersePack {
	return append([]model.VersePack(nil), c.library.Packs...)
}

// Pack looks a pack up by id.
func (c *Catalog) Pack(id string) (model.VersePack, bool) {
	for _, p := range c.library.Packs {
		if p.ID == id {
			return p, true
		}
	}
	return model.VersePack{}, false
}

// PrayerPlans returns the prayer plans in library order.
func (c *Catalog) PrayerPlans() []model.PrayerPlan {
	return append([]model.PrayerPlan(nil), c.library.PrayerPlans...)
}

// PackIDFor maps a focus area to the id of the pack that serves it.
func (c *Catalog) PackIDFor(area model.FocusArea) (string, bool) {
	id, ok := focusPacks[area]
	return id, ok
}

// ParseFocusAreas converts configured names to focus areas. Names are
// matched case-insensitively; an unknown name is an error.
func ParseFocusAreas(names []string) ([]model.FocusArea, error) {
	areas := make([]model.FocusArea, 0, len(names))
	for _, name := range names {
		area := model.FocusArea(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := focusPacks[area]; !ok {
			return nil, fmt.Errorf("unknown focus area: %q", name)
		}
		areas = append(areas, area)
	}
	return areas, nil
}

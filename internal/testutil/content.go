package testutil

import (
	"fmt"

	"steadfast/internal/model"
)

// StaticContent is a fixture anchor.ContentSource.
type StaticContent struct {
	AnchorList []model.AnchorEntry
	PackList   []model.VersePack
	FocusMap   map[model.FocusArea]string
}

func (c *StaticContent) Anchors() []model.AnchorEntry { return c.AnchorList }
func (c *StaticContent) Packs() []model.VersePack     { return c.PackList }

func (c *StaticContent) PackIDFor(area model.FocusArea) (string, bool) {
	id, ok := c.FocusMap[area]
	return id, ok
}

// Entries returns n anchors with references "Ref 1" .. "Ref n".
func Entries(n int) []model.AnchorEntry {
	out := make([]model.AnchorEntry, n)
	for i := range out {
		out[i] = model.AnchorEntry{
			Reference: fmt.Sprintf("Ref %d", i+1),
			InhaleCue: fmt.Sprintf("in %d", i+1),
			ExhaleCue: fmt.Sprintf("out %d", i+1),
		}
	}
	return out
}

// Pack returns a pack with id whose verses are named "<id> 1" .. "<id> n".
func Pack(id string, n int) model.VersePack {
	p := model.VersePack{ID: id, Title: id}
	for i := 0; i < n; i++ {
		p.Verses = append(p.Verses, model.AnchorEntry{Reference: fmt.Sprintf("%s %d", id, i+1)})
	}
	return p
}

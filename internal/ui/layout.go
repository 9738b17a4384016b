package ui

import (
	"karolbroda.com/residences/internal/content"
	"karolbroda.com/residences/internal/sequence"
)

// region is the scroll stretch owned by one section. the section is pinned
// for Distance rows from Start and then scrolls away over gap rows.
type region struct {
	ID       string
	Start    float64
	Distance float64
	Items    int
	Images   int
}

func (r region) pin() sequence.PinRange {
	return sequence.PinRange{Start: r.Start, Distance: r.Distance}
}

type pageLayout struct {
	regions []region
	gap     float64
	max     float64
}

// buildLayout gives every section rowsPerItem rows of pinned scrolling per
// item of its longer track.
func buildLayout(doc *content.Document, rowsPerItem int) pageLayout {
	if rowsPerItem <= 0 {
		rowsPerItem = 1
	}
	layout := pageLayout{gap: float64(rowsPerItem)}
	if doc == nil {
		return layout
	}

	start := 0.0
	for _, s := range doc.Sections {
		items := len(s.Items)
		images := len(s.ImageRefs())
		steps := max(items, images, 1)

		r := region{
			ID:       s.ID,
			Start:    start,
			Distance: float64(steps * rowsPerItem),
			Items:    items,
			Images:   images,
		}
		layout.regions = append(layout.regions, r)
		layout.max = r.Start + r.Distance
		start = layout.max + layout.gap
	}
	return layout
}

// regionAt returns the index of the region that owns offset: the last one
// starting at or before it.
func (l pageLayout) regionAt(offset float64) int {
	if len(l.regions) == 0 {
		return -1
	}
	idx := 0
	for i, r := range l.regions {
		if r.Start <= offset {
			idx = i
		}
	}
	return idx
}

func (l pageLayout) indexOf(id string) int {
	for i, r := range l.regions {
		if r.ID == id {
			return i
		}
	}
	return -1
}

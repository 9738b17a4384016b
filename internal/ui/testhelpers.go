// Test<API> exposes internal model state to the ui_test package.
package ui

import (
	"karolbroda.com/residences/internal/sequence"
)

// TestMountedSection returns the id of the mounted section, or "".
func (m Model) TestMountedSection() string {
	if section := m.section(); section != nil {
		return section.ID
	}
	return ""
}

func (m Model) TestTextTrack() (sequence.TrackState, bool) {
	return m.seq.Snapshot(textTrack)
}

func (m Model) TestImageTrack() (sequence.TrackState, bool) {
	return m.seq.Snapshot(imageTrack)
}

// TestTransitions returns the recent transitions, oldest first.
func (m Model) TestTransitions() []sequence.Transition {
	return m.transitions.all()
}

func (m Model) TestTransitionCount() int {
	return m.transitions.count()
}

func (m Model) TestScrollTarget() float64 {
	return m.anim.Target
}

func (m Model) TestScrollAnimating() bool {
	return m.anim.Animating()
}

func (m Model) TestSectionStart(id string) (float64, bool) {
	idx := m.layout.indexOf(id)
	if idx < 0 {
		return 0, false
	}
	return m.layout.regions[idx].Start, true
}

func (m Model) TestSectionPin(id string) (sequence.PinRange, bool) {
	idx := m.layout.indexOf(id)
	if idx < 0 {
		return sequence.PinRange{}, false
	}
	return m.layout.regions[idx].pin(), true
}

func (m Model) TestPageMax() float64 {
	return m.layout.max
}

func (m Model) TestHelpVisible() bool {
	return m.showHelp
}

func (m Model) TestMenuCursor() int {
	return m.menuCursor
}

// TestLabelRow returns the screen row of label k in the mounted section.
func (m Model) TestLabelRow(k int) int {
	return m.geometry().bodyTop + labelTopPad + k
}

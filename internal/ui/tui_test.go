package ui_test

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/residences/internal/content"
	"karolbroda.com/residences/internal/ui"
)

const shortWait = 3 * time.Second

func newTestProgram(t *testing.T, w, h int) *teatest.TestModel {
	t.Helper()
	m := ui.NewModel(ui.ModelConfig{
		Document:     content.Default(),
		Debounce:     20 * time.Millisecond,
		FadeDuration: 20 * time.Millisecond,
	})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(w, h))
	tm.Send(tea.WindowSizeMsg{Width: w, Height: h})
	return tm
}

func TestTUI_RendersAndQuits(t *testing.T) {
	tm := newTestProgram(t, 100, 30)

	teatest.WaitFor(t, tm.Output(),
		func(b []byte) bool { return bytes.Contains(b, []byte("Infinity pool")) },
		teatest.WithDuration(shortWait),
	)

	tm.Type("q")
	tm.WaitFinished(t, teatest.WithFinalTimeout(shortWait))

	final, ok := tm.FinalModel(t).(ui.Model)
	require.True(t, ok)
	assert.True(t, final.IsQuitting())
	assert.False(t, final.Sequencer().Mounted())
}

func TestTUI_ClickSettlesOnItem(t *testing.T) {
	tm := newTestProgram(t, 100, 30)

	teatest.WaitFor(t, tm.Output(),
		func(b []byte) bool { return bytes.Contains(b, []byte("amenities 1/4")) },
		teatest.WithDuration(shortWait),
	)

	tm.Type("3")
	teatest.WaitFor(t, tm.Output(),
		func(b []byte) bool { return bytes.Contains(b, []byte("text 0→2 click")) },
		teatest.WithDuration(shortWait),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	teatest.WaitFor(t, tm.Output(),
		func(b []byte) bool { return bytes.Contains(b, []byte("residences 2/4")) },
		teatest.WithDuration(shortWait),
	)

	tm.Type("q")
	tm.WaitFinished(t, teatest.WithFinalTimeout(shortWait))

	final := tm.FinalModel(t).(ui.Model)
	assert.Equal(t, "residences", final.Session().ActiveSection.Get())
	assert.NotEmpty(t, final.TestTransitions())
}

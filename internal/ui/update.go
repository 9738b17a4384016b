package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/residences/internal/content"
	"karolbroda.com/residences/internal/media"
)

const (
	wheelRows      = 2
	preloadTimeout = 30 * time.Second
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case TickMsg:
		return m.handleTick()

	case MediaLoadedMsg:
		m.mediaErr = msg.Err
		if msg.Err != nil {
			m.logger.Warn("ui: some media failed to load", "error", msg.Err)
		}
		return m, nil

	case ContentReloadedMsg:
		return m.handleContentReloaded(msg)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := normalizeKey(msg.String())
	m.status = ""

	keys := m.keys
	switch {
	case m.session.Gallery.Get().Open:
		keys = m.galleryKeys
	case m.session.MenuOpen.Get():
		keys = m.menuKeys
	case m.showHelp && (key == "esc" || key == "?"):
		m.showHelp = false
		return m, nil
	}

	handler, ok := keys[key]
	if !ok {
		return m, nil
	}
	cmd := handler(&m, msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-wheelRows)
	case tea.MouseButtonWheelDown:
		m.scrollBy(wheelRows)
	case tea.MouseButtonLeft:
		if k, ok := m.labelAt(msg.X, msg.Y); ok {
			m.clickItem(k)
		}
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.tickCount++

	if m.anim.Update(scrollTransitionTicks) {
		m.session.Scroll.ScrollTo(m.anim.Position)
		m.syncRegion(false)
	}

	return m, tickCmd(m.frame)
}

func (m Model) handleContentReloaded(msg ContentReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status = "reload failed: " + msg.Err.Error()
		m.logger.Warn("ui: content reload failed", "error", msg.Err)
		return m, nil
	}
	if msg.Doc == nil {
		return m, nil
	}

	m.reload(msg.Doc)
	// a rewritten document may point at rewritten images under the same refs
	if m.library != nil {
		m.library.Purge()
	}
	m.logger.Info("ui: content reloaded", "source", msg.Doc.Source, "sections", len(msg.Doc.Sections))
	return m, preloadCmd(m.library, m.doc)
}

// reload swaps the document, keeping the reader at the same progress of the
// same section when it still exists. the sequencer is always remounted since
// item counts may have changed.
func (m *Model) reload(doc *content.Document) {
	active := m.session.ActiveSection.Get()
	progress := 0.0
	if m.mounted >= 0 && m.mounted < len(m.layout.regions) {
		progress = m.layout.regions[m.mounted].pin().Progress(m.session.Scroll.Offset())
	}

	m.doc = doc
	m.layout = buildLayout(doc, m.rowsPerItem)
	m.session.Scroll.SetBounds(m.layout.max)
	m.session.CloseGallery()
	m.session.MenuOpen.Set(false)

	offset := 0.0
	if idx := m.layout.indexOf(active); idx >= 0 {
		offset = m.layout.regions[idx].pin().Offset(progress)
	}
	m.session.Scroll.ScrollTo(offset)
	offset = m.session.Scroll.Offset()
	m.anim.Snap(offset)
	m.syncRegion(true)
}

func (m *Model) scrollBy(delta float64) {
	target := clamp(m.anim.Target+delta, 0, m.layout.max)
	if target == m.anim.Target {
		return
	}
	m.anim.Retarget(target)
}

// clickItem routes a label activation through the click bridge and keeps
// the smooth scroll in line with the repositioned viewport.
func (m *Model) clickItem(k int) {
	if err := m.seq.Click(textTrack, k); err != nil {
		m.status = err.Error()
		return
	}
	m.anim.Snap(m.session.Scroll.Offset())
}

func (m *Model) goToSection(idx int) {
	if idx < 0 || idx >= len(m.layout.regions) {
		return
	}
	m.anim.Retarget(m.layout.regions[idx].Start)
}

func (m *Model) handleQuit(_ tea.KeyMsg) tea.Cmd {
	m.quitting = true
	m.Stop()
	return tea.Quit
}

func (m *Model) handleToggleHelp(_ tea.KeyMsg) tea.Cmd {
	m.showHelp = !m.showHelp
	return nil
}

func (m *Model) handleToggleHeader(_ tea.KeyMsg) tea.Cmd {
	m.hideHeader = !m.hideHeader
	return nil
}

func (m *Model) handleScrollDown(_ tea.KeyMsg) tea.Cmd {
	m.scrollBy(1)
	return nil
}

func (m *Model) handleScrollUp(_ tea.KeyMsg) tea.Cmd {
	m.scrollBy(-1)
	return nil
}

func (m *Model) handlePageDown(_ tea.KeyMsg) tea.Cmd {
	m.scrollBy(float64(m.rowsPerItem))
	return nil
}

func (m *Model) handlePageUp(_ tea.KeyMsg) tea.Cmd {
	m.scrollBy(-float64(m.rowsPerItem))
	return nil
}

func (m *Model) handleHome(_ tea.KeyMsg) tea.Cmd {
	m.anim.Retarget(0)
	return nil
}

func (m *Model) handleEnd(_ tea.KeyMsg) tea.Cmd {
	m.anim.Retarget(m.layout.max)
	return nil
}

func (m *Model) handleClickDigit(msg tea.KeyMsg) tea.Cmd {
	m.clickItem(digitOf(msg))
	return nil
}

func (m *Model) handleNextSection(_ tea.KeyMsg) tea.Cmd {
	m.goToSection(min(m.mounted+1, len(m.layout.regions)-1))
	return nil
}

func (m *Model) handlePrevSection(_ tea.KeyMsg) tea.Cmd {
	// first back to the start of the current section, then further
	idx := m.mounted
	if idx >= 0 && m.anim.Target <= m.layout.regions[idx].Start {
		idx--
	}
	m.goToSection(max(idx, 0))
	return nil
}

func (m *Model) handleToggleMenu(_ tea.KeyMsg) tea.Cmd {
	m.session.ToggleMenu()
	if m.session.MenuOpen.Get() {
		m.menuCursor = max(m.mounted, 0)
	}
	return nil
}

func (m *Model) handleMenuDigit(msg tea.KeyMsg) tea.Cmd {
	idx := digitOf(msg)
	if idx >= len(m.layout.regions) {
		return nil
	}
	m.session.MenuOpen.Set(false)
	m.goToSection(idx)
	return nil
}

func (m *Model) handleMenuDown(_ tea.KeyMsg) tea.Cmd {
	m.menuCursor = min(m.menuCursor+1, len(m.layout.regions)-1)
	return nil
}

func (m *Model) handleMenuUp(_ tea.KeyMsg) tea.Cmd {
	m.menuCursor = max(m.menuCursor-1, 0)
	return nil
}

func (m *Model) handleMenuSelect(_ tea.KeyMsg) tea.Cmd {
	m.session.MenuOpen.Set(false)
	m.goToSection(m.menuCursor)
	return nil
}

func (m *Model) handleOpenGallery(_ tea.KeyMsg) tea.Cmd {
	section := m.section()
	if section == nil || len(section.ImageRefs()) == 0 {
		m.status = "no images in this section"
		return nil
	}

	idx := 0
	if st, ok := m.seq.Snapshot(imageTrack); ok {
		idx = st.Stable
	}
	m.session.OpenGallery(section.ID, idx)
	return nil
}

func (m *Model) handleGalleryNext(_ tea.KeyMsg) tea.Cmd {
	m.session.StepGallery(1, len(m.galleryRefs()))
	return nil
}

func (m *Model) handleGalleryPrev(_ tea.KeyMsg) tea.Cmd {
	m.session.StepGallery(-1, len(m.galleryRefs()))
	return nil
}

func (m *Model) handleCloseGallery(_ tea.KeyMsg) tea.Cmd {
	m.session.CloseGallery()
	return nil
}

func (m Model) galleryRefs() []string {
	state := m.session.Gallery.Get()
	section, _, err := m.doc.Section(state.Section)
	if err != nil {
		return nil
	}
	return section.ImageRefs()
}

// labelAt maps a screen cell to the label row under it.
func (m Model) labelAt(x int, y int) (int, bool) {
	if m.showHelp || m.session.MenuOpen.Get() || m.session.Gallery.Get().Open {
		return 0, false
	}
	section := m.section()
	if section == nil {
		return 0, false
	}

	g := m.geometry()
	if x < 0 || x >= g.labels {
		return 0, false
	}
	k := y - g.bodyTop - labelTopPad
	if k < 0 || k >= len(section.Items) || labelTopPad+k >= g.body {
		return 0, false
	}
	return k, true
}

func digitOf(msg tea.KeyMsg) int {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return -1
	}
	return int(s[0] - '1')
}

func preloadCmd(lib *media.Library, doc *content.Document) tea.Cmd {
	if lib == nil || doc == nil {
		return nil
	}

	var refs []string
	for i := range doc.Sections {
		refs = append(refs, doc.Sections[i].AllMedia()...)
	}
	if len(refs) == 0 {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
		defer cancel()
		return MediaLoadedMsg{Err: lib.Preload(ctx, refs)}
	}
}

package ui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/residences/internal/cache"
	"karolbroda.com/residences/internal/config"
	"karolbroda.com/residences/internal/content"
	"karolbroda.com/residences/internal/media"
	"karolbroda.com/residences/internal/sequence"
	"karolbroda.com/residences/internal/store"
	"karolbroda.com/residences/internal/terminal"
)

const (
	textTrack  = "text"
	imageTrack = "images"
)

type TickMsg time.Time

type MediaLoadedMsg struct {
	Err error
}

// ContentReloadedMsg carries a re-read content document into the program.
type ContentReloadedMsg struct {
	Doc *content.Document
	Err error
}

type ModelConfig struct {
	Document     *content.Document
	Session      *store.Session
	Library      *media.Library
	Cache        *cache.SessionCache
	Clock        sequence.Clock
	Debounce     time.Duration
	FadeDuration time.Duration
	RowsPerItem  int
	HideHeader   bool
	TermCaps     *terminal.Capabilities
	Logger       *slog.Logger
	// Anchor wins over InitialOffset when set.
	Anchor        *content.Anchor
	InitialOffset float64
	FrameInterval time.Duration
}

type Model struct {
	doc      *content.Document
	session  *store.Session
	library  *media.Library
	cache    *cache.SessionCache
	logger   *slog.Logger
	termCaps *terminal.Capabilities

	seq         *sequence.Sequencer
	transitions *transitionLog
	layout      pageLayout
	mounted     int
	anim        ScrollAnim
	rowsPerItem int
	frame       time.Duration

	keys        map[string]func(*Model, tea.KeyMsg) tea.Cmd
	menuKeys    map[string]func(*Model, tea.KeyMsg) tea.Cmd
	galleryKeys map[string]func(*Model, tea.KeyMsg) tea.Cmd

	menuCursor int
	hideHeader bool
	showHelp   bool
	quitting   bool
	width      int
	height     int
	tickCount  int
	status     string
	mediaErr   error
}

func NewModel(cfg ModelConfig) Model {
	doc := cfg.Document
	if doc == nil {
		doc = content.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rows := cfg.RowsPerItem
	if rows <= 0 {
		rows = config.DefaultRowsPerItem
	}
	frame := cfg.FrameInterval
	if frame <= 0 {
		frame = config.FrameInterval
	}

	m := Model{
		doc:         doc,
		session:     cfg.Session,
		library:     cfg.Library,
		cache:       cfg.Cache,
		logger:      logger,
		termCaps:    cfg.TermCaps,
		transitions: newTransitionLog(8),
		layout:      buildLayout(doc, rows),
		mounted:     -1,
		rowsPerItem: rows,
		frame:       frame,
		hideHeader:  cfg.HideHeader,
		keys:        buildKeyMap(MainKeyBindings()),
		menuKeys:    buildKeyMap(MenuKeyBindings()),
		galleryKeys: buildKeyMap(GalleryKeyBindings()),
	}
	if m.session == nil {
		m.session = store.NewSession(m.layout.max)
	}
	m.session.Scroll.SetBounds(m.layout.max)

	m.seq = sequence.New(m.session.Scroll, sequence.Options{
		Clock:        cfg.Clock,
		Debounce:     cfg.Debounce,
		FadeDuration: cfg.FadeDuration,
		Easing:       sequence.EaseNone,
		Logger:       logger,
		OnTransition: m.transitions.record,
	})

	if cfg.Anchor != nil {
		if err := m.navigate(*cfg.Anchor); err != nil {
			m.status = err.Error()
			m.jumpTo(0)
		}
	} else {
		m.jumpTo(cfg.InitialOffset)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.frame),
		preloadCmd(m.library, m.doc),
	)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// jumpTo moves the page to offset at once and mounts whichever section owns it.
func (m *Model) jumpTo(offset float64) {
	m.session.Scroll.ScrollTo(offset)
	offset = m.session.Scroll.Offset()
	m.anim.Snap(offset)
	m.syncRegion(false)
}

// syncRegion mounts the section under the current offset when it is not the
// mounted one already. force remounts regardless.
func (m *Model) syncRegion(force bool) {
	idx := m.layout.regionAt(m.session.Scroll.Offset())
	if idx < 0 {
		m.seq.Unmount()
		m.mounted = -1
		return
	}
	if idx == m.mounted && !force {
		return
	}
	m.mount(idx)
}

func (m *Model) mount(idx int) {
	r := m.layout.regions[idx]
	section := &m.doc.Sections[idx]
	pin := r.pin()
	progress := pin.Progress(m.session.Scroll.Offset())

	variant := section.VariantOrDefault()
	imageVariant := sequence.VariantSequence
	if variant == sequence.VariantParallax {
		imageVariant = sequence.VariantParallax
	}

	m.seq.Mount(pin,
		sequence.TrackSpec{
			Name:    textTrack,
			Count:   r.Items,
			Initial: sequence.MapIndex(progress, r.Items),
			Labels:  true,
			Variant: variant,
		},
		sequence.TrackSpec{
			Name:    imageTrack,
			Count:   r.Images,
			Initial: sequence.MapIndex(progress, r.Images),
			Variant: imageVariant,
		},
	)
	m.mounted = idx
	m.session.ActiveSection.Set(r.ID)
	// the fresh source has not seen the offset yet
	m.session.Scroll.Refresh()

	m.logger.Debug("ui: section mounted", "section", r.ID, "items", r.Items, "images", r.Images)
}

// navigate resolves a hash anchor: the section start, then a programmatic
// scroll to the item when one is named.
func (m *Model) navigate(anchor content.Anchor) error {
	a, err := anchor.Resolve(m.doc)
	if err != nil {
		return err
	}
	idx := m.layout.indexOf(a.Section)
	m.jumpTo(m.layout.regions[idx].Start)

	if a.Index > 0 {
		if err := m.seq.ScrollToIndex(textTrack, a.Index); err != nil {
			return err
		}
		m.anim.Snap(m.session.Scroll.Offset())
	}
	return nil
}

func (m *Model) section() *content.Section {
	if m.mounted < 0 || m.mounted >= len(m.doc.Sections) {
		return nil
	}
	return &m.doc.Sections[m.mounted]
}

// Stop unmounts the sequencer and records where the session ended.
func (m *Model) Stop() {
	m.seq.Unmount()

	if m.cache == nil || m.doc.Source == "" {
		return
	}
	err := m.cache.Set(&cache.SessionEntry{
		Source:  m.doc.Source,
		Section: m.session.ActiveSection.Get(),
		Offset:  m.session.Scroll.Offset(),
	})
	if err != nil {
		m.logger.Warn("ui: failed to save session", "error", err)
	}
}

func (m Model) Width() int                  { return m.width }
func (m Model) Height() int                 { return m.height }
func (m Model) Document() *content.Document { return m.doc }
func (m Model) Session() *store.Session     { return m.session }
func (m Model) Sequencer() *sequence.Sequencer {
	return m.seq
}
func (m Model) IsQuitting() bool { return m.quitting }
func (m Model) Status() string   { return m.status }

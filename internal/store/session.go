package store

type GalleryState struct {
	Open    bool
	Section string
	Index   int
}

// Session groups the stores one running showcase shares.
type Session struct {
	Scroll        *ScrollStore
	ActiveSection *Value[string]
	MenuOpen      *Value[bool]
	Gallery       *Value[GalleryState]
}

func NewSession(scrollMax float64) *Session {
	return &Session{
		Scroll:        NewScrollStore(scrollMax),
		ActiveSection: NewValue(""),
		MenuOpen:      NewValue(false),
		Gallery:       NewValue(GalleryState{}),
	}
}

func (s *Session) OpenGallery(section string, index int) {
	s.Gallery.Set(GalleryState{Open: true, Section: section, Index: index})
}

func (s *Session) CloseGallery() {
	g := s.Gallery.Get()
	g.Open = false
	s.Gallery.Set(g)
}

// StepGallery moves the open gallery by delta, wrapping within count images.
func (s *Session) StepGallery(delta int, count int) {
	g := s.Gallery.Get()
	if !g.Open || count <= 0 {
		return
	}
	g.Index = ((g.Index+delta)%count + count) % count
	s.Gallery.Set(g)
}

func (s *Session) ToggleMenu() {
	s.MenuOpen.Set(!s.MenuOpen.Get())
}

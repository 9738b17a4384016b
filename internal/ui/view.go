package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/common-nighthawk/go-figure"
	"github.com/mattn/go-runewidth"

	"karolbroda.com/residences/internal/colors"
	"karolbroda.com/residences/internal/content"
	"karolbroda.com/residences/internal/media"
	"karolbroda.com/residences/internal/sequence"
	"karolbroda.com/residences/internal/terminal"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	footerHeight  = 2
	labelTopPad   = 1
	// below this width the image column is dropped
	minImageWidth = 70
	// below this height the banner collapses to one line
	minBannerHeight = 20
	parallaxDepth   = 2

	background = "#101014"
	foreground = "#d8d8dc"
	errorColor = "#ff6b6b"
)

type geometry struct {
	width   int
	height  int
	bodyTop int
	body    int
	labels  int
	cards   int
	images  int
}

type headerBlock struct {
	banner   []string
	subtitle string
}

func (h headerBlock) height() int {
	if h.banner == nil {
		return 0
	}
	return len(h.banner) + 3
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	g := m.geometry()
	palette := m.palette()
	h := m.header(g.width, g.height)

	var lines []string
	if h.banner != nil {
		lines = append(lines, "")
		for _, line := range h.banner {
			lines = append(lines, "  "+colors.RenderGradientText(line, palette.Gradient, true))
		}
		subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Italic(true)
		lines = append(lines, "  "+subtitleStyle.Render(h.subtitle), "")
	}

	switch {
	case m.session.Gallery.Get().Open:
		lines = append(lines, m.renderGallery(g, palette)...)
	case m.session.MenuOpen.Get():
		lines = append(lines, m.renderMenu(g, palette)...)
	case m.showHelp:
		lines = append(lines, m.renderHelp(g, palette)...)
	default:
		lines = append(lines, m.renderBody(g, palette))
	}

	lines = append(lines, m.renderFooter(g, palette)...)
	return strings.Join(lines, "\n")
}

func (m Model) geometry() geometry {
	width := m.width
	height := m.height
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}

	g := geometry{width: width, height: height}
	g.bodyTop = m.header(width, height).height()
	g.body = max(height-g.bodyTop-footerHeight, 1)
	g.labels = clampInt(width/4, 16, 30)
	if width >= minImageWidth {
		g.images = clampInt(width/3, 16, 40)
	}
	g.cards = max(width-g.labels-g.images-4, 10)
	return g
}

// palette follows the first image of the mounted section.
func (m Model) palette() *media.Palette {
	section := m.section()
	if m.library == nil || section == nil {
		return media.DefaultPalette()
	}
	refs := section.ImageRefs()
	if len(refs) == 0 {
		return media.DefaultPalette()
	}
	return m.library.Palette(refs[0])
}

func (m Model) header(width int, height int) headerBlock {
	if m.hideHeader {
		return headerBlock{}
	}

	title := m.doc.Title
	if section := m.section(); section != nil {
		title = section.Title
	}

	h := headerBlock{subtitle: m.doc.Title}
	if m.doc.Subtitle != "" {
		h.subtitle += " · " + m.doc.Subtitle
	}
	h.subtitle = runewidth.Truncate(h.subtitle, max(width-4, 1), "…")

	if height >= minBannerHeight {
		if banner := bannerLines(title); widest(banner) <= width-4 {
			h.banner = banner
			return h
		}
	}
	h.banner = []string{runewidth.Truncate(strings.ToUpper(title), max(width-4, 1), "…")}
	return h
}

var (
	bannerMu    sync.Mutex
	bannerCache = make(map[string][]string)
)

func bannerLines(text string) []string {
	bannerMu.Lock()
	defer bannerMu.Unlock()
	if lines, ok := bannerCache[text]; ok {
		return lines
	}

	rows := figure.NewFigure(text, "small", false).Slicify()

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.TrimRight(row, " "))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	bannerCache[text] = lines
	return lines
}

func widest(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}

func (m Model) renderBody(g geometry, palette *media.Palette) string {
	section := m.section()
	if section == nil {
		return column(centered("no content", g.width, g.body, palette.Dim), g.width, g.body)
	}

	text, _ := m.seq.Snapshot(textTrack)
	images, _ := m.seq.Snapshot(imageTrack)
	progress, _ := m.seq.Progress()

	blocks := []string{
		column(m.renderLabels(g, palette, section, text), g.labels, g.body),
		"  ",
		column(m.renderCards(g, palette, section, text), g.cards, g.body),
	}
	if g.images > 0 {
		blocks = append(blocks, "  ", column(m.renderImage(g, palette, section, images, progress), g.images, g.body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (m Model) renderLabels(g geometry, palette *media.Palette, section *content.Section, st sequence.TrackState) []string {
	lines := make([]string, g.body)
	for i, item := range section.Items {
		row := labelTopPad + i
		if row >= g.body {
			break
		}

		style := sequence.LabelStyle{Opacity: 0.4}
		if i < len(st.Labels) {
			style = st.Labels[i]
		}

		indent := int(math.Round(style.Indent * 2))
		marker := "  "
		if style.Weight > 0.5 {
			marker = "▸ "
		}
		label := runewidth.Truncate(fmt.Sprintf("%d %s", i+1, item.Title), max(g.labels-indent-2, 1), "…")

		labelStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Fade(palette.Primary, background, style.Opacity))).
			Bold(style.Weight > 0.5)
		lines[row] = strings.Repeat(" ", indent) + labelStyle.Render(marker+label)
	}
	return lines
}

func (m Model) renderCards(g geometry, palette *media.Palette, section *content.Section, st sequence.TrackState) []string {
	if len(section.Items) == 0 || len(st.Items) == 0 {
		return centered("no items in this section", g.cards, g.body, palette.Dim)
	}

	switch section.VariantOrDefault() {
	case sequence.VariantAccordion:
		return renderAccordion(section.Items, st.Items, g.cards, g.body, palette)
	case sequence.VariantStackingCards:
		return renderStack(section.Items, st.Items, g.cards, g.body, palette)
	}

	idx, opacity := frontItem(st.Items)
	card := renderCard(section.Items[idx], len(section.Items), g.cards, dissolve(opacity), palette)
	return place(nil, card, 0, g.body)
}

type layer struct {
	lines   []string
	top     int
	z       int
	opacity float64
}

// renderStack draws stacking cards: inactive cards wait one card height
// below and slide up over the previous one.
func renderStack(items []content.Item, visuals []sequence.ItemVisual, width int, height int, palette *media.Palette) []string {
	var layers []layer
	for i, v := range visuals {
		if i >= len(items) || v.Opacity < 0.02 {
			continue
		}
		layers = append(layers, layer{
			lines:   renderCard(items[i], len(items), width, v.Opacity, palette),
			top:     int(math.Round(v.Offset * float64(height))),
			z:       v.Z,
			opacity: v.Opacity,
		})
	}
	sort.SliceStable(layers, func(a, b int) bool {
		if layers[a].z != layers[b].z {
			return layers[a].z < layers[b].z
		}
		return layers[a].opacity < layers[b].opacity
	})

	canvas := make([]string, height)
	for _, l := range layers {
		canvas = place(canvas, l.lines, l.top, height)
	}
	return canvas
}

// renderAccordion expands each item by its opacity.
func renderAccordion(items []content.Item, visuals []sequence.ItemVisual, width int, height int, palette *media.Palette) []string {
	var lines []string
	for i, item := range items {
		expanded := 0.0
		if i < len(visuals) {
			expanded = visuals[i].Opacity
		}

		marker := "▸ "
		if expanded > 0.5 {
			marker = "▾ "
		}
		titleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Blend(palette.Dim, palette.Primary, expanded))).
			Bold(expanded > 0.5)
		lines = append(lines, titleStyle.Render(runewidth.Truncate(marker+item.Title, width, "…")))

		body := wrap(item.Text, width-4)
		shown := int(math.Round(expanded * float64(len(body))))
		textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Fade(foreground, background, expanded)))
		for _, line := range body[:shown] {
			lines = append(lines, "    "+textStyle.Render(line))
		}
	}
	return place(nil, lines, 0, height)
}

func renderCard(item content.Item, count int, width int, opacity float64, palette *media.Palette) []string {
	border := colors.Fade(palette.Secondary, background, opacity)
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Fade(palette.Primary, background, opacity))).
		Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Fade(foreground, background, opacity)))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Fade(palette.Dim, background, opacity)))

	inner := max(width-4, 4)
	body := []string{titleStyle.Render(runewidth.Truncate(item.Title, inner, "…")), ""}
	for _, line := range wrap(item.Text, inner) {
		body = append(body, textStyle.Render(line))
	}
	body = append(body, "", dimStyle.Render(fmt.Sprintf("%02d / %02d", item.Index+1, count)))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(body, "\n"))
	return strings.Split(card, "\n")
}

func (m Model) renderImage(g geometry, palette *media.Palette, section *content.Section, st sequence.TrackState, progress sequence.ProgressState) []string {
	refs := section.ImageRefs()
	artHeight := min(g.body-2, g.images/2)
	if len(refs) == 0 || len(st.Items) == 0 || artHeight < 2 {
		return nil
	}

	idx, opacity := frontItem(st.Items)
	var art []string
	if m.library != nil {
		art = m.library.Art(refs[idx], g.images, artHeight, dissolve(opacity))
	}
	if art == nil {
		return centered("loading", g.images, g.body, palette.Dim)
	}

	top := (g.body - artHeight) / 2
	if section.VariantOrDefault() == sequence.VariantParallax {
		raw := clamp(progress.Raw, 0, 1)
		top += int(math.Round(sequence.ParallaxOffset(raw, parallaxDepth)))
	}
	return place(nil, art, top, g.body)
}

func (m Model) renderFooter(g geometry, palette *media.Palette) []string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Accent))

	pin := "◇"
	if m.session.Scroll.Pinned() {
		pin = "◆"
	}

	info := fmt.Sprintf("%s %d/%d", m.session.ActiveSection.Get(), m.mounted+1, len(m.layout.regions))
	if st, ok := m.seq.Snapshot(textTrack); ok {
		info += fmt.Sprintf(" · %02d/%02d", st.Stable+1, st.Count)
	}

	progress := 0.0
	if p, ok := m.seq.Progress(); ok {
		progress = clamp(p.Raw, 0, 1)
	}

	barWidth := max(g.width-runewidth.StringWidth(info)-8, 10)
	filled := int(float64(barWidth) * progress)

	var bar strings.Builder
	ramp := colors.GenerateMultiGradient([]string{palette.Primary, palette.Secondary, palette.Accent}, barWidth)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Faint(true)
	for i := 0; i < barWidth; i++ {
		filledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ramp[min(i, len(ramp)-1)]))
		switch {
		case i < filled:
			bar.WriteString(filledStyle.Render("━"))
		case i == filled:
			bar.WriteString(filledStyle.Render("●"))
		default:
			bar.WriteString(emptyStyle.Render("─"))
		}
	}

	status := dimStyle.Render("? help")
	if tr, ok := m.transitions.last(); ok {
		status = dimStyle.Render(fmt.Sprintf("%s %d→%d %s · ? help", tr.Track, tr.From, tr.To, tr.Cause))
	}
	if m.status != "" {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(errorColor)).Render(m.status)
	}

	return []string{
		fmt.Sprintf(" %s %s  %s", accentStyle.Render(pin), bar.String(), dimStyle.Render(info)),
		" " + status,
	}
}

func (m Model) renderMenu(g geometry, palette *media.Palette) []string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(foreground))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))

	lines := []string{"", "  " + titleStyle.Render("sections"), ""}
	for i, section := range m.doc.Sections {
		cursor := "  "
		style := itemStyle
		if i == m.menuCursor {
			cursor = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.ShiftHue(palette.Primary, 30))).Render("▸ ")
			style = titleStyle
		}
		entry := fmt.Sprintf("%d  %s", i+1, section.Title)
		count := dimStyle.Render(fmt.Sprintf("  %d items", len(section.Items)))
		lines = append(lines, "  "+cursor+style.Render(runewidth.Truncate(entry, max(g.width-20, 1), "…"))+count)
	}
	lines = append(lines, "", "  "+dimStyle.Render("1-9 go · enter select · esc close"))
	return place(nil, lines, 0, g.body)
}

func (m Model) renderHelp(g geometry, palette *media.Palette) []string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(foreground)).Padding(0, 1)

	var rows [][]string
	categories := append(MainKeyBindings(), MenuKeyBindings()...)
	categories = append(categories, GalleryKeyBindings()...)
	for _, category := range categories {
		for i, binding := range category.Bindings {
			name := ""
			if i == 0 {
				name = category.Name
			}
			keys := strings.Join(binding.Keys, "/")
			if len(binding.Keys) == len(digitKeys) && binding.Keys[0] == digitKeys[0] {
				keys = "1-9"
			}
			rows = append(rows, []string{name, keys, binding.Description})
		}
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "keys", "action").
		Rows(rows...).
		StyleFunc(func(row int, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})

	return place(nil, strings.Split(t.Render(), "\n"), 0, g.body)
}

func (m Model) renderGallery(g geometry, palette *media.Palette) []string {
	refs := m.galleryRefs()
	state := m.session.Gallery.Get()
	if len(refs) == 0 {
		return centered("no images", g.width, g.body, palette.Dim)
	}
	idx := min(max(state.Index, 0), len(refs)-1)
	ref := refs[idx]

	width := max(g.width-4, 4)
	height := max(g.body-2, 2)

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))
	caption := "  " + dimStyle.Render(fmt.Sprintf("%s  %d/%d  ←/→ browse · esc close", state.Section, idx+1, len(refs)))

	lines := make([]string, 0, g.body)
	if m.termCaps != nil && m.termCaps.SupportsKittyGraphics && m.library != nil {
		if img, ok := m.library.Image(ref); ok {
			if encoded := terminal.EncodeImageForKitty(img, width, height); encoded != "" {
				lines = append(lines, "  "+encoded)
				lines = place(lines, nil, 0, height+1)
				return place(append(lines, caption), nil, 0, g.body)
			}
		}
	}

	var art []string
	if m.library != nil {
		art = m.library.Art(ref, width, height, 1)
	}
	if art == nil {
		return centered("loading", g.width, g.body, palette.Dim)
	}
	lines = append(lines, "")
	for _, line := range art {
		lines = append(lines, "  "+line)
	}
	return place(append(lines, caption), nil, 0, g.body)
}

// frontItem picks the item to show when only one can be drawn: the most
// opaque one, the front one on ties.
func frontItem(visuals []sequence.ItemVisual) (int, float64) {
	best := 0
	for i, v := range visuals {
		b := visuals[best]
		if v.Opacity > b.Opacity || (v.Opacity == b.Opacity && v.Z > b.Z) {
			best = i
		}
	}
	return best, visuals[best].Opacity
}

// dissolve maps the winning opacity of a cross-fade, which never drops below
// one half, back onto 0..1 so the swap reads as fade out then fade in.
func dissolve(opacity float64) float64 {
	return clamp(2*opacity-1, 0, 1)
}

func wrap(text string, width int) []string {
	if text == "" {
		return nil
	}
	wrapped := lipgloss.NewStyle().Width(max(width, 1)).Render(text)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}

// place copies block into canvas starting at row top, growing canvas to
// height and clipping whatever falls outside it.
func place(canvas []string, block []string, top int, height int) []string {
	for len(canvas) < height {
		canvas = append(canvas, "")
	}
	for i, line := range block {
		row := top + i
		if row < 0 || row >= height {
			continue
		}
		canvas[row] = line
	}
	return canvas[:height]
}

func centered(text string, width int, height int, color string) []string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Italic(true)
	pad := max((width-runewidth.StringWidth(text))/2, 0)
	return place(nil, []string{strings.Repeat(" ", pad) + style.Render(text)}, height/2, height)
}

// column renders lines as a block of exactly width by height cells.
func column(lines []string, width int, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxHeight(height).
		MaxWidth(width).
		Render(strings.Join(lines, "\n"))
}

func clampInt(val int, min int, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

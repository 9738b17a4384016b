package content

import (
	"fmt"
	"strconv"
	"strings"
)

// Anchor is a hash link into the document, "#section" or "#section/index".
type Anchor struct {
	Section string
	// Index is -1 when the anchor names only a section.
	Index int
}

func ParseAnchor(raw string) (Anchor, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if raw == "" {
		return Anchor{}, fmt.Errorf("empty anchor")
	}

	id, idx, found := strings.Cut(raw, "/")
	if id == "" {
		return Anchor{}, fmt.Errorf("anchor %q has no section", raw)
	}
	if !found {
		return Anchor{Section: id, Index: -1}, nil
	}

	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return Anchor{}, fmt.Errorf("anchor %q has invalid index %q", raw, idx)
	}
	return Anchor{Section: id, Index: n}, nil
}

func (a Anchor) String() string {
	if a.Index < 0 {
		return "#" + a.Section
	}
	return fmt.Sprintf("#%s/%d", a.Section, a.Index)
}

// Resolve checks the anchor against doc, clamping the index to the section.
func (a Anchor) Resolve(doc *Document) (Anchor, error) {
	s, _, err := doc.Section(a.Section)
	if err != nil {
		return Anchor{}, err
	}
	if a.Index >= len(s.Items) {
		a.Index = len(s.Items) - 1
	}
	return a, nil
}

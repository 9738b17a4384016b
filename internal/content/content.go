// Package content models the showcase document: titled sections, each a list
// of items with text and image references.
package content

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"karolbroda.com/residences/internal/sequence"
)

var (
	ErrNoSections       = errors.New("document has no sections")
	ErrMissingID        = errors.New("section has no id")
	ErrDuplicateSection = errors.New("duplicate section id")
	ErrUntitledItem     = errors.New("item has no title")
	ErrUnknownSection   = errors.New("unknown section")
)

type Item struct {
	Index int      `yaml:"-"`
	Title string   `yaml:"title"`
	Text  string   `yaml:"text,omitempty"`
	Media []string `yaml:"media,omitempty"`
}

type Section struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Variant string   `yaml:"variant,omitempty"`
	Items   []Item   `yaml:"items"`
	Images  []string `yaml:"images,omitempty"`
}

type Document struct {
	Title    string    `yaml:"title"`
	Subtitle string    `yaml:"subtitle,omitempty"`
	Sections []Section `yaml:"sections"`
	// Source is where the document was loaded from.
	Source string `yaml:"-"`
}

func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	doc.index()
	return &doc, nil
}

func Marshal(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content: %w", err)
	}
	return data, nil
}

func (d *Document) index() {
	for s := range d.Sections {
		for i := range d.Sections[s].Items {
			d.Sections[s].Items[i].Index = i
		}
	}
}

// Validate reports every problem in the document at once.
func (d *Document) Validate() error {
	if len(d.Sections) == 0 {
		return ErrNoSections
	}

	var errs []error
	seen := make(map[string]bool, len(d.Sections))
	for i, s := range d.Sections {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("section %d: %w", i, ErrMissingID))
		} else if seen[s.ID] {
			errs = append(errs, fmt.Errorf("section %q: %w", s.ID, ErrDuplicateSection))
		}
		seen[s.ID] = true

		if _, err := sequence.ParseVariant(s.Variant); err != nil {
			errs = append(errs, fmt.Errorf("section %q: %w", s.ID, err))
		}
		for _, item := range s.Items {
			if item.Title == "" {
				errs = append(errs, fmt.Errorf("section %q item %d: %w", s.ID, item.Index, ErrUntitledItem))
			}
		}
	}
	return errors.Join(errs...)
}

func (d *Document) Section(id string) (*Section, int, error) {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i], i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %q", ErrUnknownSection, id)
}

func (d *Document) SectionIDs() []string {
	ids := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		ids[i] = s.ID
	}
	return ids
}

// ImageRefs returns the references of the image track. an explicit image
// list wins; otherwise every item contributes its first media reference.
func (s *Section) ImageRefs() []string {
	if len(s.Images) > 0 {
		return s.Images
	}
	var refs []string
	for _, item := range s.Items {
		if len(item.Media) > 0 {
			refs = append(refs, item.Media[0])
		}
	}
	return refs
}

// AllMedia returns every distinct reference the section shows.
func (s *Section) AllMedia() []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(ref string) {
		if ref == "" || seen[ref] {
			return
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	for _, ref := range s.Images {
		add(ref)
	}
	for _, item := range s.Items {
		for _, ref := range item.Media {
			add(ref)
		}
	}
	return refs
}

func (s *Section) VariantOrDefault() sequence.Variant {
	v, err := sequence.ParseVariant(s.Variant)
	if err != nil {
		return sequence.VariantStackingCards
	}
	return v
}

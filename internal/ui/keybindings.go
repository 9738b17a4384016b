package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding maps keys to a handler on T. a nil Handler documents a key in
// the help overlay without dispatching it.
type KeyBinding[T any] struct {
	Keys        []string
	Description string
	Handler     func(*T, tea.KeyMsg) tea.Cmd
}

type BindingCategory[T any] struct {
	Name     string
	Bindings []KeyBinding[T]
}

var digitKeys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}

func MainKeyBindings() []BindingCategory[Model] {
	return []BindingCategory[Model]{
		{
			Name: "General",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"?"},
					Description: "Toggle this help screen",
					Handler:     (*Model).handleToggleHelp,
				},
				{
					Keys:        []string{"q", "ctrl+c"},
					Description: "Quit",
					Handler:     (*Model).handleQuit,
				},
				{
					Keys:        []string{"i"},
					Description: "Toggle the banner",
					Handler:     (*Model).handleToggleHeader,
				},
			},
		},
		{
			Name: "Scrolling",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"j", "down"},
					Description: "Scroll down one row",
					Handler:     (*Model).handleScrollDown,
				},
				{
					Keys:        []string{"k", "up"},
					Description: "Scroll up one row",
					Handler:     (*Model).handleScrollUp,
				},
				{
					Keys:        []string{"J", "pgdown", "space"},
					Description: "Scroll down one item",
					Handler:     (*Model).handlePageDown,
				},
				{
					Keys:        []string{"K", "pgup"},
					Description: "Scroll up one item",
					Handler:     (*Model).handlePageUp,
				},
				{
					Keys:        []string{"home"},
					Description: "Scroll to the top",
					Handler:     (*Model).handleHome,
				},
				{
					Keys:        []string{"end"},
					Description: "Scroll to the bottom",
					Handler:     (*Model).handleEnd,
				},
			},
		},
		{
			Name: "Items",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        digitKeys,
					Description: "Jump to item 1-9 of the section",
					Handler:     (*Model).handleClickDigit,
				},
			},
		},
		{
			Name: "Sections",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"tab"},
					Description: "Next section",
					Handler:     (*Model).handleNextSection,
				},
				{
					Keys:        []string{"shift+tab"},
					Description: "Previous section",
					Handler:     (*Model).handlePrevSection,
				},
				{
					Keys:        []string{"m"},
					Description: "Open the section menu",
					Handler:     (*Model).handleToggleMenu,
				},
				{
					Keys:        []string{"g"},
					Description: "Open the image gallery",
					Handler:     (*Model).handleOpenGallery,
				},
			},
		},
		mouseCategory[Model](),
	}
}

func MenuKeyBindings() []BindingCategory[Model] {
	return []BindingCategory[Model]{
		{
			Name: "Menu",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        digitKeys,
					Description: "Go to section",
					Handler:     (*Model).handleMenuDigit,
				},
				{
					Keys:        []string{"j", "down"},
					Description: "Next entry",
					Handler:     (*Model).handleMenuDown,
				},
				{
					Keys:        []string{"k", "up"},
					Description: "Previous entry",
					Handler:     (*Model).handleMenuUp,
				},
				{
					Keys:        []string{"enter"},
					Description: "Go to the selected section",
					Handler:     (*Model).handleMenuSelect,
				},
				{
					Keys:        []string{"esc", "m"},
					Description: "Close the menu",
					Handler:     (*Model).handleToggleMenu,
				},
				{
					Keys:        []string{"ctrl+c"},
					Description: "Quit",
					Handler:     (*Model).handleQuit,
				},
			},
		},
	}
}

func GalleryKeyBindings() []BindingCategory[Model] {
	return []BindingCategory[Model]{
		{
			Name: "Gallery",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"right", "l"},
					Description: "Next image",
					Handler:     (*Model).handleGalleryNext,
				},
				{
					Keys:        []string{"left", "h"},
					Description: "Previous image",
					Handler:     (*Model).handleGalleryPrev,
				},
				{
					Keys:        []string{"esc", "g"},
					Description: "Close the gallery",
					Handler:     (*Model).handleCloseGallery,
				},
				{
					Keys:        []string{"q", "ctrl+c"},
					Description: "Quit",
					Handler:     (*Model).handleQuit,
				},
			},
		},
	}
}

func mouseCategory[T any]() BindingCategory[T] {
	return BindingCategory[T]{
		Name: "Mouse",
		Bindings: []KeyBinding[T]{
			{
				Keys:        []string{"wheel"},
				Description: "Scroll the page",
			},
			{
				Keys:        []string{"click"},
				Description: "Jump to the clicked item label",
			},
		},
	}
}

func buildKeyMap[T any](categories []BindingCategory[T]) map[string]func(*T, tea.KeyMsg) tea.Cmd {
	keyMap := make(map[string]func(*T, tea.KeyMsg) tea.Cmd)
	for _, category := range categories {
		for _, binding := range category.Bindings {
			if binding.Handler == nil {
				continue
			}
			for _, key := range binding.Keys {
				keyMap[normalizeKey(key)] = binding.Handler
			}
		}
	}
	return keyMap
}

// normalizeKey turns KeyMsg.String() into the names used in the tables.
func normalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

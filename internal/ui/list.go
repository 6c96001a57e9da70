package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = moodItem{}

// moodItem is a selectable mood label implementing [list.Item]. Built-in
// moods carry their curated search query as the description; stored custom
// moods carry their saved description.
type moodItem struct {
	name        string
	description string
}

func (i moodItem) FilterValue() string { return i.name }
func (i moodItem) Title() string       { return i.name }
func (i moodItem) Description() string {
	if i.description == "" {
		return "No description"
	}
	return i.description
}

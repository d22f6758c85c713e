package model

import "encoding/json"

// Entry is one heading in the finished outline.
type Entry struct {
	// Text is the heading text.
	Text string `json:"text"`

	// Level is the heading depth, 1 = highest substantive rank below
	// the title. Levels may jump back to a shallower value at any
	// point; outlines are not required to nest strictly.
	Level int `json:"level"`

	// Page is the page the heading appears on.
	Page int `json:"page"`
}

// Outline is the final artifact produced for one document: a title
// (possibly empty) and the ordered heading list. Entries are ordered by
// (page, vertical position, horizontal position) ascending.
type Outline struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"outline"`
}

// Add appends an entry to the outline.
func (o *Outline) Add(e Entry) {
	o.Entries = append(o.Entries, e)
}

// IsEmpty reports whether the outline carries neither a title nor entries.
func (o *Outline) IsEmpty() bool {
	return o.Title == "" && len(o.Entries) == 0
}

// MarshalJSON emits the persisted contract shape. A nil entry slice is
// serialized as an empty array, never null.
func (o Outline) MarshalJSON() ([]byte, error) {
	type alias Outline
	a := alias(o)
	if a.Entries == nil {
		a.Entries = []Entry{}
	}
	return json.Marshal(a)
}

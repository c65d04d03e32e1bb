package models

import "slices"

type NoteCategory string

const (
	NotePersonal NoteCategory = "personal"
	NoteWork     NoteCategory = "work"
	NoteLearning NoteCategory = "learning"
	NoteIdeas    NoteCategory = "ideas"
	NoteMeeting  NoteCategory = "meeting"
	NoteJournal  NoteCategory = "journal"
	NoteOther    NoteCategory = "other"
)

func (c NoteCategory) Valid() bool {
	switch c {
	case NotePersonal, NoteWork, NoteLearning, NoteIdeas, NoteMeeting, NoteJournal, NoteOther:
		return true
	}
	return false
}

type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodNeutral   Mood = "neutral"
	MoodSad       Mood = "sad"
	MoodStressed  Mood = "stressed"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodExcellent, MoodGood, MoodNeutral, MoodSad, MoodStressed:
		return true
	}
	return false
}

type Note struct {
	Base
	Title    string       `json:"title" db:"title"`
	Content  string       `json:"content" db:"content"`
	Category NoteCategory `json:"category" db:"category"`
	Tags     []string     `json:"tags" db:"tags"`
	Mood     *Mood        `json:"mood,omitempty" db:"mood"`
}

func (n *Note) ApplyDefaults() {
	if n.Category == "" {
		n.Category = NotePersonal
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
}

func (n *Note) Clone() *Note {
	c := *n
	c.Tags = slices.Clone(n.Tags)
	if n.Mood != nil {
		m := *n.Mood
		c.Mood = &m
	}
	return &c
}

type NoteOption func(*Note)

func WithNoteContent(content string) NoteOption {
	return func(n *Note) {
		n.Content = content
	}
}

func WithNoteMood(mood *Mood) NoteOption {
	return func(n *Note) {
		n.Mood = mood
	}
}

package models

import "time"

type Subject struct {
	Base
	Name       string `json:"name"`
	Code       string `json:"code"`
	Color      string `json:"color"`
	Instructor string `json:"instructor,omitempty"`
	Credits    *int   `json:"credits,omitempty"`
}

func (s *Subject) Clone() *Subject {
	c := *s
	if s.Credits != nil {
		v := *s.Credits
		c.Credits = &v
	}
	return &c
}

type AssignmentType string

const (
	AssignmentHomework     AssignmentType = "assignment"
	AssignmentProject      AssignmentType = "project"
	AssignmentExam         AssignmentType = "exam"
	AssignmentQuiz         AssignmentType = "quiz"
	AssignmentPresentation AssignmentType = "presentation"
)

type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentInProgress AssignmentStatus = "in-progress"
	AssignmentSubmitted  AssignmentStatus = "submitted"
	AssignmentGraded     AssignmentStatus = "graded"
)

type Assignment struct {
	Base
	SubjectID   string           `json:"subjectId"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Type        AssignmentType   `json:"type"`
	DueDate     time.Time        `json:"dueDate"`
	Status      AssignmentStatus `json:"status"`
	Priority    Priority         `json:"priority"`
	Grade       *float64         `json:"grade,omitempty"`
	MaxPoints   *float64         `json:"maxPoints,omitempty"`
}

func (a *Assignment) ApplyDefaults() {
	if a.Type == "" {
		a.Type = AssignmentHomework
	}
	if a.Status == "" {
		a.Status = AssignmentPending
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
}

func (a *Assignment) Clone() *Assignment {
	c := *a
	if a.Grade != nil {
		g := *a.Grade
		c.Grade = &g
	}
	if a.MaxPoints != nil {
		m := *a.MaxPoints
		c.MaxPoints = &m
	}
	return &c
}

type BlockType string

const (
	BlockRecurring  BlockType = "recurring"
	BlockOneTime    BlockType = "one-time"
	BlockAssignment BlockType = "assignment"
)

// TimetableBlock: у recurring задан DayOfWeek, у one-time - Date.
// Блоки типа assignment только вычисляются из Assignment и не сохраняются.
type TimetableBlock struct {
	Base
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Color       string        `json:"color"`
	Type        BlockType     `json:"type"`
	DayOfWeek   *time.Weekday `json:"dayOfWeek,omitempty"`
	StartTime   string        `json:"startTime,omitempty"` // HH:MM
	EndTime     string        `json:"endTime,omitempty"`   // HH:MM
	Date        *time.Time    `json:"date,omitempty"`
	// AssignmentID заполняется только у вычисленных блоков.
	AssignmentID string `json:"assignmentId,omitempty"`
}

func (b *TimetableBlock) ApplyDefaults() {
	if b.Type == "" {
		if b.Date != nil {
			b.Type = BlockOneTime
		} else {
			b.Type = BlockRecurring
		}
	}
}

func (b *TimetableBlock) Clone() *TimetableBlock {
	c := *b
	if b.DayOfWeek != nil {
		d := *b.DayOfWeek
		c.DayOfWeek = &d
	}
	if b.Date != nil {
		d := *b.Date
		c.Date = &d
	}
	return &c
}

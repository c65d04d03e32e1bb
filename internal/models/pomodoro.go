package models

import "time"

type SessionType string

const (
	SessionFocus      SessionType = "focus"
	SessionShortBreak SessionType = "short-break"
	SessionLongBreak  SessionType = "long-break"
)

func (t SessionType) Valid() bool {
	return t == SessionFocus || t == SessionShortBreak || t == SessionLongBreak
}

// DefaultMinutes - стандартная длительность для типа сессии.
func (t SessionType) DefaultMinutes() int {
	switch t {
	case SessionShortBreak:
		return 5
	case SessionLongBreak:
		return 15
	default:
		return 25
	}
}

type PomodoroSession struct {
	Base
	Type      SessionType `json:"type" db:"type"`
	Duration  int         `json:"duration" db:"duration"` // в минутах
	Completed bool        `json:"completed" db:"completed"`
	StartTime time.Time   `json:"startTime" db:"start_time"`
	EndTime   *time.Time  `json:"endTime,omitempty" db:"end_time"`
	Label     string      `json:"label,omitempty" db:"label"`
}

func (s *PomodoroSession) ApplyDefaults() {
	if s.Type == "" {
		s.Type = SessionFocus
	}
	if s.Duration <= 0 {
		s.Duration = s.Type.DefaultMinutes()
	}
}

func (s *PomodoroSession) Clone() *PomodoroSession {
	c := *s
	if s.EndTime != nil {
		e := *s.EndTime
		c.EndTime = &e
	}
	return &c
}

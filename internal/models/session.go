package models

import "time"

// StudySession is one recorded interval of study. Duration is in seconds and
// Date is the calendar day the time counts towards.
type StudySession struct {
	ID        string     `db:"id" json:"id"`
	SubjectID string     `db:"subject_id" json:"subjectId"`
	Duration  int        `db:"duration" json:"duration"`
	Date      Date       `db:"date" json:"date"`
	StartTime *time.Time `db:"start_time" json:"startTime,omitempty"`
	EndTime   *time.Time `db:"end_time" json:"endTime,omitempty"`
	Notes     string     `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

// SessionFilter narrows session listings. Zero values are ignored; From and To
// are inclusive.
type SessionFilter struct {
	SubjectID string
	From      Date
	To        Date
}

// Matches reports whether s passes the filter.
func (f SessionFilter) Matches(s StudySession) bool {
	if f.SubjectID != "" && s.SubjectID != f.SubjectID {
		return false
	}
	if !f.From.IsZero() && s.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && s.Date.After(f.To) {
		return false
	}
	return true
}

// Snapshot is every subject and session visible at one instant.
type Snapshot struct {
	Subjects []Subject
	Sessions []StudySession
}

package models

import "time"

// TimerState is the persisted form of the active study timer.
type TimerState struct {
	SubjectID          string     `json:"subjectId"`
	Running            bool       `json:"running"`
	AccumulatedSeconds int        `json:"accumulatedSeconds"`
	StartedAt          time.Time  `json:"startedAt"`
	ResumedAt          *time.Time `json:"resumedAt,omitempty"`
}

// Elapsed returns whole seconds counted so far, including the running stretch.
func (t TimerState) Elapsed(now time.Time) int {
	elapsed := t.AccumulatedSeconds
	if t.Running && t.ResumedAt != nil && now.After(*t.ResumedAt) {
		elapsed += int(now.Sub(*t.ResumedAt) / time.Second)
	}
	return elapsed
}

// TimerView is what clients see of the timer.
type TimerView struct {
	Active         bool       `json:"active"`
	SubjectID      string     `json:"subjectId,omitempty"`
	Running        bool       `json:"running"`
	ElapsedSeconds int        `json:"elapsedSeconds"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
}

// View renders state at now. A nil state is an idle timer.
func (t *TimerState) View(now time.Time) TimerView {
	if t == nil {
		return TimerView{}
	}
	started := t.StartedAt
	return TimerView{
		Active:         true,
		SubjectID:      t.SubjectID,
		Running:        t.Running,
		ElapsedSeconds: t.Elapsed(now),
		StartedAt:      &started,
	}
}

// Package stats computes the read-only study summaries: overall totals with
// the current streak and top subjects, the rolling weekly view and per-subject
// totals. Every function is a pure projection of the records it is given.
package stats

import (
	"sort"

	"github.com/noah-isme/study-tracker-api/internal/models"
)

// DefaultTopSubjects is the ranking length used when none is configured.
const DefaultTopSubjects = 5

// WeekDays is the length of the weekly view.
const WeekDays = 7

// Engine holds the tunables of the aggregation. It carries no record state.
type Engine struct {
	topSubjects int
}

// New returns an Engine ranking topSubjects subjects (DefaultTopSubjects when <= 0).
func New(topSubjects int) *Engine {
	if topSubjects <= 0 {
		topSubjects = DefaultTopSubjects
	}
	return &Engine{topSubjects: topSubjects}
}

// Overall summarises sessions relative to the calendar day today.
//
// The week window is date >= today-7 days and the month window is
// date >= today-1 month (day clamped to the month end); neither has an upper
// bound. Sessions whose subject is missing count towards the totals but not
// towards TopSubjects.
func (e *Engine) Overall(sessions []models.StudySession, subjects []models.Subject, today models.Date) models.OverallStats {
	weekStart := today.AddDays(-WeekDays)
	monthStart := today.AddMonths(-1)
	byID := indexSubjects(subjects)

	out := models.OverallStats{TotalSessions: len(sessions)}
	perSubject := make(map[string]int)

	for _, s := range sessions {
		out.TotalDuration += s.Duration
		if s.Date == today {
			out.TodayDuration += s.Duration
		}
		if !s.Date.Before(weekStart) {
			out.WeekDuration += s.Duration
		}
		if !s.Date.Before(monthStart) {
			out.MonthDuration += s.Duration
		}
		if _, ok := byID[s.SubjectID]; ok {
			perSubject[s.SubjectID] += s.Duration
		}
	}

	out.TopSubjects = rankSubjects(perSubject, byID, e.topSubjects)
	out.CurrentStreak = CurrentStreak(sessions, today)
	return out
}

// Weekly returns exactly WeekDays entries for today-6 .. today, oldest first.
// Days without sessions are present with zero values.
func (e *Engine) Weekly(sessions []models.StudySession, today models.Date) []models.DailyStats {
	days := make([]models.DailyStats, WeekDays)
	slot := make(map[models.Date]int, WeekDays)
	for i := 0; i < WeekDays; i++ {
		d := today.AddDays(i - (WeekDays - 1))
		days[i] = models.DailyStats{Date: d}
		slot[d] = i
	}

	for _, s := range sessions {
		if i, ok := slot[s.Date]; ok {
			days[i].Duration += s.Duration
			days[i].Sessions++
		}
	}
	return days
}

// Subject totals the sessions of subjectID. The bool is false when no subject
// with that id exists; sessions alone never make a subject exist.
func (e *Engine) Subject(subjectID string, sessions []models.StudySession, subjects []models.Subject) (models.SubjectStats, bool) {
	var subject *models.Subject
	for i := range subjects {
		if subjects[i].ID == subjectID {
			subject = &subjects[i]
			break
		}
	}
	if subject == nil {
		return models.SubjectStats{}, false
	}

	out := models.SubjectStats{
		SubjectID: subject.ID,
		Name:      subject.Name,
		Color:     subject.Color,
	}
	for _, s := range sessions {
		if s.SubjectID == subjectID {
			out.TotalDuration += s.Duration
			out.Sessions++
		}
	}
	return out, true
}

// CurrentStreak counts consecutive days ending today that have at least one
// session. It is 0 when today has none, even if yesterday does.
func CurrentStreak(sessions []models.StudySession, today models.Date) int {
	days := make(map[models.Date]struct{}, len(sessions))
	for _, s := range sessions {
		days[s.Date] = struct{}{}
	}

	streak := 0
	for d := today; ; d = d.AddDays(-1) {
		if _, ok := days[d]; !ok {
			return streak
		}
		streak++
	}
}

func indexSubjects(subjects []models.Subject) map[string]models.Subject {
	byID := make(map[string]models.Subject, len(subjects))
	for _, s := range subjects {
		byID[s.ID] = s
	}
	return byID
}

// rankSubjects orders by duration descending; ties fall back to name then id
// so repeated calls over the same records agree.
func rankSubjects(perSubject map[string]int, byID map[string]models.Subject, limit int) []models.SubjectDuration {
	type entry struct {
		id string
		models.SubjectDuration
	}

	entries := make([]entry, 0, len(perSubject))
	for id, total := range perSubject {
		subject := byID[id]
		entries = append(entries, entry{
			id:              id,
			SubjectDuration: models.SubjectDuration{Name: subject.Name, Duration: total, Color: subject.Color},
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.id < b.id
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]models.SubjectDuration, len(entries))
	for i, e := range entries {
		out[i] = e.SubjectDuration
	}
	return out
}

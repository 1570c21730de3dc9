package models

// OverallStats summarises all recorded study time. Durations are seconds.
type OverallStats struct {
	TodayDuration int               `json:"todayDuration"`
	WeekDuration  int               `json:"weekDuration"`
	MonthDuration int               `json:"monthDuration"`
	TotalDuration int               `json:"totalDuration"`
	TotalSessions int               `json:"totalSessions"`
	CurrentStreak int               `json:"currentStreak"`
	TopSubjects   []SubjectDuration `json:"topSubjects"`
}

// SubjectDuration is a ranked entry in OverallStats.TopSubjects. Name and Color
// are copied from the subject when the stats are computed.
type SubjectDuration struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Color    string `json:"color"`
}

// DailyStats is one day in the weekly view.
type DailyStats struct {
	Date     Date `json:"date"`
	Duration int  `json:"duration"`
	Sessions int  `json:"sessions"`
}

// SubjectStats totals a single subject.
type SubjectStats struct {
	SubjectID     string `json:"subjectId"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	TotalDuration int    `json:"totalDuration"`
	Sessions      int    `json:"sessions"`
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/study-tracker-api/internal/models"
	"github.com/noah-isme/study-tracker-api/internal/stats"
	"github.com/noah-isme/study-tracker-api/pkg/export"
)

const (
	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypePDF = "application/pdf"
)

type csvRenderer interface {
	RenderSessions(rows []export.SessionRow) ([]byte, error)
}

type pdfRenderer interface {
	Render(report export.Report) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Title       string
	TopSubjects int
	Location    *time.Location
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders study records as CSV and the stats views as a PDF report.
// Both read one snapshot per call.
type ExportService struct {
	source snapshotSource
	engine *stats.Engine
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	cfg    ExportConfig
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(source snapshotSource, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "Study Report"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if csv == nil {
		csv = export.NewCSVExporter(stats.FormatDuration)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		source: source,
		engine: stats.New(cfg.TopSubjects),
		csv:    csv,
		pdf:    pdf,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// SessionsCSV renders every session matching filter, newest day first.
func (s *ExportService) SessionsCSV(ctx context.Context, filter models.SessionFilter) (*ExportFile, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	names := subjectNames(snap.Subjects)

	sessions := make([]models.StudySession, 0, len(snap.Sessions))
	for _, session := range snap.Sessions {
		if filter.Matches(session) {
			sessions = append(sessions, session)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.After(sessions[j].Date)
	})

	rows := make([]export.SessionRow, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, export.SessionRow{
			Date:    session.Date.String(),
			Subject: subjectLabel(names, session.SubjectID),
			Seconds: session.Duration,
			Start:   formatClock(session.StartTime, s.cfg.Location),
			End:     formatClock(session.EndTime, s.cfg.Location),
			Notes:   session.Notes,
		})
	}

	body, err := s.csv.RenderSessions(rows)
	if err != nil {
		s.logger.Error("render sessions csv", zap.Error(err))
		return nil, internalError(err, "failed to render csv")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("study-sessions_%s.csv", s.stamp()),
		ContentType: contentTypeCSV,
		Body:        body,
	}, nil
}

// ReportPDF renders the overall, weekly and top-subject views as one document.
func (s *ExportService) ReportPDF(ctx context.Context) (*ExportFile, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	today := models.DateOf(s.now().In(s.cfg.Location))
	overall := s.engine.Overall(snap.Sessions, snap.Subjects, today)
	weekly := s.engine.Weekly(snap.Sessions, today)

	report := export.Report{
		Title:    s.cfg.Title,
		Subtitle: "Generated " + today.String(),
		Sections: []export.Section{
			{Heading: "Overview", Data: overviewDataset(overall)},
			{Heading: "Last 7 days", Data: weeklyDataset(weekly)},
			{Heading: "Top subjects", Data: topSubjectsDataset(overall.TopSubjects)},
		},
	}

	body, err := s.pdf.Render(report)
	if err != nil {
		s.logger.Error("render stats pdf", zap.Error(err))
		return nil, internalError(err, "failed to render pdf")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("study-report_%s.pdf", s.stamp()),
		ContentType: contentTypePDF,
		Body:        body,
	}, nil
}

func (s *ExportService) snapshot(ctx context.Context) (models.Snapshot, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		s.logger.Error("export snapshot failed", zap.Error(err))
		return models.Snapshot{}, internalError(err, "failed to read study records")
	}
	return snap, nil
}

func (s *ExportService) stamp() string {
	return s.now().In(s.cfg.Location).Format("20060102")
}

func overviewDataset(o models.OverallStats) export.Dataset {
	row := func(label string, seconds int) map[string]string {
		return map[string]string{"Metric": label, "Value": stats.FormatDuration(seconds)}
	}
	return export.Dataset{
		Headers: []string{"Metric", "Value"},
		Rows: []map[string]string{
			row("Today", o.TodayDuration),
			row("This week", o.WeekDuration),
			row("This month", o.MonthDuration),
			row("All time", o.TotalDuration),
			{"Metric": "Sessions", "Value": strconv.Itoa(o.TotalSessions)},
			{"Metric": "Current streak", "Value": fmt.Sprintf("%d days", o.CurrentStreak)},
		},
	}
}

func weeklyDataset(days []models.DailyStats) export.Dataset {
	rows := make([]map[string]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, map[string]string{
			"Date":     d.Date.String(),
			"Day":      d.Date.Time().Weekday().String()[:3],
			"Studied":  stats.FormatDuration(d.Duration),
			"Sessions": strconv.Itoa(d.Sessions),
		})
	}
	return export.Dataset{Headers: []string{"Date", "Day", "Studied", "Sessions"}, Rows: rows}
}

func topSubjectsDataset(top []models.SubjectDuration) export.Dataset {
	rows := make([]map[string]string, 0, len(top))
	for i, t := range top {
		rows = append(rows, map[string]string{
			"#":       strconv.Itoa(i + 1),
			"Subject": t.Name,
			"Studied": stats.FormatDuration(t.Duration),
		})
	}
	return export.Dataset{Headers: []string{"#", "Subject", "Studied"}, Rows: rows}
}

func subjectNames(subjects []models.Subject) map[string]string {
	names := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		names[subject.ID] = subject.Name
	}
	return names
}

// subjectLabel falls back to the raw id for sessions whose subject was deleted.
func subjectLabel(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func formatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04:05")
}

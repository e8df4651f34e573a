// Package clerk wires the catalog, calendar directory and planning options
// into the operations the CLI and the HTTP API share.
package clerk

import (
	"context"
	"fmt"
	"time"

	"github.com/Anthonyjrchen/LegalClerk/internal/catalog"
	"github.com/Anthonyjrchen/LegalClerk/internal/config"
	"github.com/Anthonyjrchen/LegalClerk/internal/deadline"
	"github.com/Anthonyjrchen/LegalClerk/internal/draft"
	"github.com/Anthonyjrchen/LegalClerk/internal/ics"
	appLog "github.com/Anthonyjrchen/LegalClerk/internal/log"
	"github.com/Anthonyjrchen/LegalClerk/internal/model"
	"github.com/Anthonyjrchen/LegalClerk/internal/plan"
	"github.com/Anthonyjrchen/LegalClerk/internal/render"
	"github.com/Anthonyjrchen/LegalClerk/internal/selection"
)

type Service struct {
	Templates *catalog.Catalog
	Directory *selection.Directory
	Plan      plan.Options
}

// New loads the catalog and calendar directory named in cfg.
func New(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	templates, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	dir, err := selection.LoadDirectory(cfg.CalendarsPath)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	sched, err := cfg.Schedule()
	if err != nil {
		return nil, err
	}

	appLog.Debug("clerk service ready",
		"templates", templates.Len(),
		"calendars", len(dir.Calendars()),
		"timezone", loc.String(),
		"reminder_schedule", cfg.ReminderSchedule,
	)
	return &Service{
		Templates: templates,
		Directory: dir,
		Plan: plan.Options{
			Location:         loc,
			ReminderSchedule: sched,
			ReminderDuration: cfg.ReminderDuration(),
		},
	}, nil
}

// ResolveRequest is the stateless deadline calculation input.
type ResolveRequest struct {
	SelectedTemplates []string           `json:"selected_templates"`
	TrialDate         model.Date         `json:"trial_date"`
	CustomDates       []model.CustomDate `json:"custom_dates"`
}

func (s *Service) Resolve(req ResolveRequest) map[string][]model.CalculatedDeadline {
	return deadline.Resolve(req.SelectedTemplates, s.Templates, req.TrialDate, req.CustomDates)
}

// Draft builds a fresh draft and replays doc onto it.
func (s *Service) Draft(doc draft.Document) (*draft.Draft, error) {
	d := draft.New(s.Templates, s.Directory)
	if err := doc.Apply(d); err != nil {
		return nil, fmt.Errorf("apply draft document: %w", err)
	}
	return d, nil
}

func (s *Service) Snapshot(doc draft.Document) (draft.Snapshot, error) {
	d, err := s.Draft(doc)
	if err != nil {
		return draft.Snapshot{}, err
	}
	return d.BuildSubmissionSnapshot(), nil
}

func (s *Service) BuildPlan(doc draft.Document) (plan.Plan, error) {
	snap, err := s.Snapshot(doc)
	if err != nil {
		return plan.Plan{}, err
	}
	p := plan.Build(snap, s.Templates, s.Plan)
	if len(p.Pending) > 0 {
		appLog.Warn("deadlines pending a reference date", "count", len(p.Pending))
	}
	return p, nil
}

// ExportICS plans doc and renders it as iCalendar stamped with now.
func (s *Service) ExportICS(doc draft.Document, now time.Time) ([]byte, error) {
	p, err := s.BuildPlan(doc)
	if err != nil {
		return nil, err
	}
	return ics.Export(p, now), nil
}

// ScheduleHTML renders doc's submission snapshot as a printable page.
func (s *Service) ScheduleHTML(doc draft.Document) ([]byte, error) {
	snap, err := s.Snapshot(doc)
	if err != nil {
		return nil, err
	}
	return render.Schedule(snap, s.Templates)
}

// SchedulePDF prints ScheduleHTML through headless Chromium.
func (s *Service) SchedulePDF(ctx context.Context, doc draft.Document, opts render.PDFOptions) ([]byte, error) {
	html, err := s.ScheduleHTML(doc)
	if err != nil {
		return nil, err
	}
	return render.PrintPDF(ctx, html, opts)
}

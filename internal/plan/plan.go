// Package plan turns a submission snapshot into the calendar events that
// the persistence collaborator writes.
package plan

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Anthonyjrchen/LegalClerk/internal/deadline"
	"github.com/Anthonyjrchen/LegalClerk/internal/draft"
	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

type Kind string

const (
	KindTrial    Kind = "trial"
	KindReminder Kind = "reminder"
)

// Event is one write against one calendar.
//
// For all-day events Start is the first day at midnight in the plan's
// location and End is the day after the last day (exclusive).
type Event struct {
	Kind        Kind      `json:"kind"`
	CalendarID  string    `json:"calendarId"`
	Key         string    `json:"key"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	AllDay      bool      `json:"allDay"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`

	TemplateID   string     `json:"templateId,omitempty"`
	DeadlineDate model.Date `json:"deadlineDate"`
}

// PendingDeadline is a deadline that cannot be placed yet because its
// reference date is unknown.
type PendingDeadline struct {
	TemplateID     string `json:"templateId"`
	DeadlineName   string `json:"deadlineName"`
	ReferenceLabel string `json:"referenceLabel"`
}

type Plan struct {
	Events  []Event           `json:"events"`
	Pending []PendingDeadline `json:"pending"`
}

// Options controls where reminders land in time.
type Options struct {
	// Location is the zone events are placed in. nil means UTC.
	Location *time.Location
	// ReminderSchedule picks the reminder time on a deadline date. nil
	// means midnight.
	ReminderSchedule cron.Schedule
	// ReminderDuration is the reminder length. Zero means 30 minutes.
	ReminderDuration time.Duration
}

func (o Options) normalized() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.ReminderDuration <= 0 {
		o.ReminderDuration = 30 * time.Minute
	}
	return o
}

// Build derives the plan. Templates supply display names; an id missing
// from templates falls back to the id itself.
//
// Event order: trial events by calendar id, then reminders by template id,
// deadline order, calendar id.
func Build(s draft.Snapshot, templates deadline.Templates, opts Options) Plan {
	opts = opts.normalized()
	p := Plan{Events: []Event{}, Pending: []PendingDeadline{}}

	if first, last, ok := s.Trial.Span(); ok {
		start := first.In(opts.Location)
		end := last.AddDays(1).In(opts.Location)
		for _, calID := range s.CalendarSelections.TargetCalendars {
			p.Events = append(p.Events, Event{
				Kind:        KindTrial,
				CalendarID:  calID,
				Key:         "trial",
				Summary:     trialSummary(s.Trial),
				Description: trialDescription(s.Trial),
				AllDay:      true,
				Start:       start,
				End:         end,
			})
		}
	}

	templateIDs := make([]string, 0, len(s.CalculatedDeadlines))
	for id := range s.CalculatedDeadlines {
		templateIDs = append(templateIDs, id)
	}
	sort.Strings(templateIDs)

	for _, tplID := range templateIDs {
		tplName := tplID
		if templates != nil {
			if tpl, ok := templates.Get(tplID); ok && tpl.Name != "" {
				tplName = tpl.Name
			}
		}
		for i, dl := range s.CalculatedDeadlines[tplID] {
			if dl.Pending() {
				p.Pending = append(p.Pending, PendingDeadline{
					TemplateID:     tplID,
					DeadlineName:   dl.DeadlineName,
					ReferenceLabel: dl.ReferenceLabel,
				})
				continue
			}
			start := reminderStart(dl.CalculatedDate, opts)
			for _, calID := range s.CalendarSelections.ReminderCalendars {
				if !s.TemplateReminderOverrides.Receives(tplID, calID) {
					continue
				}
				p.Events = append(p.Events, Event{
					Kind:         KindReminder,
					CalendarID:   calID,
					Key:          fmt.Sprintf("reminder/%s/%d", tplID, i),
					Summary:      dl.DeadlineName,
					Description:  reminderDescription(tplName, dl, s.Trial),
					Start:        start,
					End:          start.Add(opts.ReminderDuration),
					TemplateID:   tplID,
					DeadlineDate: dl.CalculatedDate,
				})
			}
		}
	}
	return p
}

// reminderStart is the first schedule firing on or after the deadline's
// midnight. A firing that falls past the deadline date is ignored and the
// reminder sits at midnight instead.
func reminderStart(d model.Date, opts Options) time.Time {
	midnight := d.In(opts.Location)
	if opts.ReminderSchedule == nil {
		return midnight
	}
	next := opts.ReminderSchedule.Next(midnight.Add(-time.Second))
	if next.IsZero() || !next.Before(d.AddDays(1).In(opts.Location)) {
		return midnight
	}
	return next
}

func trialSummary(f model.TrialFields) string {
	switch {
	case f.StyleOfCause != "" && f.CourtFileNo != "":
		return fmt.Sprintf("Trial: %s (%s)", f.StyleOfCause, f.CourtFileNo)
	case f.StyleOfCause != "":
		return "Trial: " + f.StyleOfCause
	case f.CourtFileNo != "":
		return "Trial: " + f.CourtFileNo
	default:
		return "Trial"
	}
}

func trialDescription(f model.TrialFields) string {
	var b strings.Builder
	if f.CourtFileNo != "" {
		fmt.Fprintf(&b, "Court file: %s\n", f.CourtFileNo)
	}
	if f.TrialDuration != "" {
		fmt.Fprintf(&b, "Duration: %s\n", f.TrialDuration)
	}
	if f.Notes != "" {
		b.WriteString(f.Notes)
	}
	return strings.TrimSpace(b.String())
}

func reminderDescription(tplName string, dl model.CalculatedDeadline, f model.TrialFields) string {
	unit := "calendar days"
	if dl.IsBusinessDays {
		unit = "business days"
	}
	lines := []string{
		tplName,
		fmt.Sprintf("%d %s before %s (%s)", dl.DaysBefore, unit, dl.ReferenceLabel, dl.ReferenceDateValue),
	}
	if f.CourtFileNo != "" {
		lines = append(lines, "Court file: "+f.CourtFileNo)
	}
	return strings.Join(lines, "\n")
}

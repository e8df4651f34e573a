package draft

import (
	"github.com/Anthonyjrchen/LegalClerk/internal/model"
	"github.com/Anthonyjrchen/LegalClerk/internal/selection"
)

// Snapshot is the payload handed to the persistence collaborator. It shares
// no memory with the draft it came from.
type Snapshot struct {
	Trial                     model.TrialFields                      `json:"trial"`
	CalculatedDeadlines       map[string][]model.CalculatedDeadline `json:"calculatedDeadlines"`
	CalendarSelections        selection.Selection                    `json:"calendarSelections"`
	TemplateReminderOverrides selection.Overrides                    `json:"templateReminderOverrides"`
}

// BuildSubmissionSnapshot derives the submission payload from the current
// state and moves the draft to Submitted. Repeated calls return equal
// snapshots and have no further effect.
func (d *Draft) BuildSubmissionSnapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Submitted {
		d.recalculateLocked()
		d.state = Submitted
	}
	return Snapshot{
		Trial:                     d.trial,
		CalculatedDeadlines:       cloneDeadlines(d.calculated),
		CalendarSelections:        d.calendars.Selection(),
		TemplateReminderOverrides: d.calendars.Overrides(),
	}
}

// Package draft is the create-trial aggregate: trial fields, custom dates,
// template selection and calendar selection, with the calculated deadlines
// kept in step with them.
package draft

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Anthonyjrchen/LegalClerk/internal/catalog"
	"github.com/Anthonyjrchen/LegalClerk/internal/deadline"
	appLog "github.com/Anthonyjrchen/LegalClerk/internal/log"
	"github.com/Anthonyjrchen/LegalClerk/internal/model"
	"github.com/Anthonyjrchen/LegalClerk/internal/selection"
)

var (
	ErrUnknownField       = errors.New("unknown field")
	ErrCustomDateNotFound = errors.New("custom date not found")
	ErrSubmitted          = errors.New("draft already submitted")
)

// State is the draft lifecycle state.
type State int

const (
	Editing State = iota
	Submitted
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Field names a trial field, using the keys of the submission payload.
type Field string

const (
	FieldCourtFileNo     Field = "courtFileNo"
	FieldStyleOfCause    Field = "styleOfCause"
	FieldTrialDate       Field = "trialDate"
	FieldTrialDuration   Field = "trialDuration"
	FieldCustomStartDate Field = "customStartDate"
	FieldCustomEndDate   Field = "customEndDate"
	FieldNotes           Field = "notes"
)

// CustomDateField names an editable attribute of a custom date.
type CustomDateField string

const (
	CustomDateName CustomDateField = "name"
	CustomDateDate CustomDateField = "date"
)

// Draft is safe for concurrent use; every operation holds the draft's lock
// for its whole read-modify-write, so readers never see deadlines computed
// from older inputs.
type Draft struct {
	mu sync.Mutex

	templates   deadline.Templates
	trial       model.TrialFields
	customDates []model.CustomDate
	selected    []string
	calendars   *selection.Model
	calculated  map[string][]model.CalculatedDeadline
	state       State

	newID func() string
}

// New starts an empty draft over the given catalog and calendar directory.
// Either may be nil.
func New(templates deadline.Templates, dir *selection.Directory) *Draft {
	if templates == nil {
		templates = catalog.New()
	}
	return &Draft{
		templates:  templates,
		calendars:  selection.NewModel(dir),
		calculated: make(map[string][]model.CalculatedDeadline),
		newID:      uuid.NewString,
	}
}

func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Trial returns the current trial fields.
func (d *Draft) Trial() model.TrialFields {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trial
}

// SetField assigns a trial field from its string form. Date fields take ISO
// dates ("" clears them). Changing the trial date recalculates deadlines.
func (d *Draft) SetField(field Field, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitted {
		return ErrSubmitted
	}

	switch field {
	case FieldCourtFileNo:
		d.trial.CourtFileNo = value
	case FieldStyleOfCause:
		d.trial.StyleOfCause = value
	case FieldNotes:
		d.trial.Notes = value
	case FieldTrialDuration:
		dur, err := model.ParseTrialDuration(value)
		if err != nil {
			return err
		}
		d.trial.TrialDuration = dur
	case FieldTrialDate, FieldCustomStartDate, FieldCustomEndDate:
		date, err := model.ParseDate(value)
		if err != nil {
			return err
		}
		switch field {
		case FieldTrialDate:
			d.setTrialDateLocked(date)
		case FieldCustomStartDate:
			d.trial.CustomStartDate = date
		default:
			d.trial.CustomEndDate = date
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// SetTrialDate sets the trial date and recalculates deadlines. It reports
// false on a submitted draft.
func (d *Draft) SetTrialDate(date model.Date) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitted {
		return false
	}
	d.setTrialDateLocked(date)
	return true
}

func (d *Draft) setTrialDateLocked(date model.Date) {
	d.trial.TrialDate = date
	d.recalculateLocked()
}

// AddCustomDate appends a custom date and returns its id, or "" on a
// submitted draft.
func (d *Draft) AddCustomDate(name string, date model.Date) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitted {
		return ""
	}
	id := d.newID()
	d.customDates = append(d.customDates, model.CustomDate{ID: id, Name: name, Date: date})
	d.recalculateLocked()
	return id
}

// UpdateCustomDate edits one attribute of the custom date with the given id
// in place.
func (d *Draft) UpdateCustomDate(id string, field CustomDateField, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitted {
		return ErrSubmitted
	}

	i := d.customDateIndexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrCustomDateNotFound, id)
	}
	switch field {
	case CustomDateName:
		d.customDates[i].Name = value
	case CustomDateDate:
		date, err := model.ParseDate(value)
		if err != nil {
			return err
		}
		d.customDates[i].Date = date
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	d.recalculateLocked()
	return nil
}

// RemoveCustomDate deletes the custom date with the given id. It reports
// whether anything was removed.
func (d *Draft) RemoveCustomDate(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitted {
		return false
	}
	i := d.customDateIndexLocked(id)
	if i < 0 {
		return false
	}
	d.customDates = append(d.customDates[:i], d.customDates[i+1:]...)
	d.recalculateLocked()
	return true
}

// CustomDates returns the custom dates in insertion order.
func (d *Draft) CustomDates() []model.CustomDate {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.CustomDate(nil), d.customDates...)
}

func (d *Draft) customDateIndexLocked(id string) int {
	for i, cd := range d.customDates {
		if cd.ID == id {
			return i
		}
	}
	return -1
}

// ToggleTemplate selects or deselects a catalog template and recalculates.
// It returns whether the template is selected afterwards. Ids missing from
// the catalog are ignored.
func (d *Draft) ToggleTemplate(templateID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, id := range d.selected {
		if id == templateID {
			idx = i
			break
		}
	}
	if d.state == Submitted {
		return idx >= 0
	}

	if idx >= 0 {
		d.selected = append(d.selected[:idx], d.selected[idx+1:]...)
		d.recalculateLocked()
		return false
	}
	if _, ok := d.templates.Get(templateID); !ok {
		appLog.Debug("draft: ignoring unknown template", "template_id", templateID)
		return false
	}
	d.selected = append(d.selected, templateID)
	d.recalculateLocked()
	return true
}

// SelectedTemplates returns selected template ids in selection order.
func (d *Draft) SelectedTemplates() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.selected...)
}

// ToggleTarget flips a target calendar. Deadlines are unaffected.
func (d *Draft) ToggleTarget(calendarID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitted {
		return false
	}
	return d.calendars.ToggleTarget(calendarID)
}

// ToggleReminder flips a reminder calendar. Deadlines are unaffected.
func (d *Draft) ToggleReminder(calendarID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitted {
		return false
	}
	return d.calendars.ToggleReminder(calendarID)
}

// ToggleTemplateOverride flips a per-template reminder override and returns
// its new value.
func (d *Draft) ToggleTemplateOverride(templateID, calendarID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitted {
		v, _ := d.calendars.Overrides().Lookup(templateID, calendarID)
		return v
	}
	return d.calendars.ToggleTemplateOverride(templateID, calendarID)
}

// Selection returns the current calendar selection.
func (d *Draft) Selection() selection.Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calendars.Selection()
}

// Overrides returns a copy of the per-template reminder overrides.
func (d *Draft) Overrides() selection.Overrides {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calendars.Overrides()
}

// CalculatedDeadlines returns a copy of the current calculated deadlines.
func (d *Draft) CalculatedDeadlines() map[string][]model.CalculatedDeadline {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneDeadlines(d.calculated)
}

// Recalculate rebuilds the calculated deadlines from the current inputs.
// Mutators call it themselves; it is exported for callers that swap the
// catalog contents underneath a draft.
func (d *Draft) Recalculate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recalculateLocked()
}

func (d *Draft) recalculateLocked() {
	d.calculated = deadline.Resolve(d.selected, d.templates, d.trial.TrialDate, d.customDates)
	appLog.Debug("draft deadlines recalculated",
		"templates", len(d.selected),
		"custom_dates", len(d.customDates),
		"trial_date", d.trial.TrialDate.String(),
	)
}

func cloneDeadlines(in map[string][]model.CalculatedDeadline) map[string][]model.CalculatedDeadline {
	out := make(map[string][]model.CalculatedDeadline, len(in))
	for id, list := range in {
		out[id] = append([]model.CalculatedDeadline(nil), list...)
	}
	return out
}

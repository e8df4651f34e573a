package draft

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

// Document describes a finished draft declaratively, for the CLI and the
// HTTP API. JSON input is accepted since it is valid YAML.
type Document struct {
	Trial             model.TrialFields          `yaml:"trial" json:"trial"`
	CustomDates       []DocumentDate             `yaml:"custom_dates" json:"custom_dates"`
	Templates         []string                   `yaml:"templates" json:"templates"`
	TargetCalendars   []string                   `yaml:"target_calendars" json:"target_calendars"`
	ReminderCalendars []string                   `yaml:"reminder_calendars" json:"reminder_calendars"`
	Overrides         map[string]map[string]bool `yaml:"overrides" json:"overrides"`
}

// DocumentDate is a custom date without an id; ids are assigned on Apply.
type DocumentDate struct {
	Name string     `yaml:"name" json:"name"`
	Date model.Date `yaml:"date" json:"date"`
}

// DecodeDocument reads a YAML or JSON draft document.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	data, err := io.ReadAll(r)
	if err != nil {
		return doc, fmt.Errorf("read draft document: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse draft document: %w", err)
	}
	if _, err := model.ParseTrialDuration(string(doc.Trial.TrialDuration)); err != nil {
		return doc, err
	}
	return doc, nil
}

// LoadDocument reads a draft document from path.
func LoadDocument(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return DecodeDocument(f)
}

// Apply replays the document onto d through the draft's own operations, so
// the same guards apply: unknown templates are skipped and read-only
// calendars are not selected. Overrides set to false are left unset.
func (doc Document) Apply(d *Draft) error {
	fields := []struct {
		f Field
		v string
	}{
		{FieldCourtFileNo, doc.Trial.CourtFileNo},
		{FieldStyleOfCause, doc.Trial.StyleOfCause},
		{FieldTrialDate, doc.Trial.TrialDate.String()},
		{FieldTrialDuration, string(doc.Trial.TrialDuration)},
		{FieldCustomStartDate, doc.Trial.CustomStartDate.String()},
		{FieldCustomEndDate, doc.Trial.CustomEndDate.String()},
		{FieldNotes, doc.Trial.Notes},
	}
	for _, fv := range fields {
		if err := d.SetField(fv.f, fv.v); err != nil {
			return fmt.Errorf("set %s: %w", fv.f, err)
		}
	}

	for _, cd := range doc.CustomDates {
		d.AddCustomDate(cd.Name, cd.Date)
	}

	for _, id := range doc.Templates {
		if !contains(d.SelectedTemplates(), id) {
			d.ToggleTemplate(id)
		}
	}

	for _, id := range doc.TargetCalendars {
		if !contains(d.Selection().TargetCalendars, id) {
			d.ToggleTarget(id)
		}
	}
	for _, id := range doc.ReminderCalendars {
		if !contains(d.Selection().ReminderCalendars, id) {
			d.ToggleReminder(id)
		}
	}

	// Sorted so replay order is stable.
	tplIDs := make([]string, 0, len(doc.Overrides))
	for id := range doc.Overrides {
		tplIDs = append(tplIDs, id)
	}
	sort.Strings(tplIDs)
	for _, tplID := range tplIDs {
		calIDs := make([]string, 0, len(doc.Overrides[tplID]))
		for id, on := range doc.Overrides[tplID] {
			if on {
				calIDs = append(calIDs, id)
			}
		}
		sort.Strings(calIDs)
		for _, calID := range calIDs {
			if on, _ := d.Overrides().Lookup(tplID, calID); !on {
				d.ToggleTemplateOverride(tplID, calID)
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

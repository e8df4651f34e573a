package plan

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anthonyjrchen/LegalClerk/internal/catalog"
	"github.com/Anthonyjrchen/LegalClerk/internal/draft"
	"github.com/Anthonyjrchen/LegalClerk/internal/model"
	"github.com/Anthonyjrchen/LegalClerk/internal/selection"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		model.Template{ID: "civil", Name: "Civil Litigation Package"},
		model.Template{ID: "family", Name: "Family Law Package"},
	)
}

func testSnapshot() draft.Snapshot {
	return draft.Snapshot{
		Trial: model.TrialFields{
			CourtFileNo:   "S-123456",
			StyleOfCause:  "Smith v. Johnson",
			TrialDate:     model.MustParseDate("2025-08-22"),
			TrialDuration: model.DurationThreeDays,
		},
		CalculatedDeadlines: map[string][]model.CalculatedDeadline{
			"family": {{
				DeadlineName:       "File Financial Statement",
				ReferenceLabel:     model.TrialDateLabel,
				ReferenceType:      model.ReferenceTrialDate,
				ReferenceDateValue: model.MustParseDate("2025-08-22"),
				CalculatedDate:     model.MustParseDate("2025-07-10"),
				DaysBefore:         30,
				IsBusinessDays:     true,
			}},
			"civil": {
				{
					DeadlineName:       "File Statement of Defense",
					ReferenceLabel:     model.TrialDateLabel,
					ReferenceType:      model.ReferenceTrialDate,
					ReferenceDateValue: model.MustParseDate("2025-08-22"),
					CalculatedDate:     model.MustParseDate("2025-07-23"),
					DaysBefore:         21,
					IsBusinessDays:     true,
				},
				{
					DeadlineName:   "Discovery Notice",
					ReferenceLabel: "Discovery Cutoff",
					ReferenceType:  model.ReferenceCustom,
					DaysBefore:     10,
				},
			},
		},
		CalendarSelections: selection.Selection{
			TargetCalendars:   []string{"court", "personal"},
			ReminderCalendars: []string{"personal", "team"},
		},
		TemplateReminderOverrides: selection.Overrides{},
	}
}

func vancouver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Vancouver")
	require.NoError(t, err)
	return loc
}

func TestBuild_TrialEvents(t *testing.T) {
	loc := vancouver(t)
	p := Build(testSnapshot(), testCatalog(), Options{Location: loc})

	var trials []Event
	for _, ev := range p.Events {
		if ev.Kind == KindTrial {
			trials = append(trials, ev)
		}
	}
	require.Len(t, trials, 2)
	assert.Equal(t, "court", trials[0].CalendarID)
	assert.Equal(t, "personal", trials[1].CalendarID)
	for _, ev := range trials {
		assert.True(t, ev.AllDay)
		assert.Equal(t, "Trial: Smith v. Johnson (S-123456)", ev.Summary)
		assert.Equal(t, "2025-08-22T00:00:00-07:00", ev.Start.Format(time.RFC3339))
		assert.Equal(t, "2025-08-25T00:00:00-07:00", ev.End.Format(time.RFC3339), "3-day trial ends after the 24th")
	}
}

func TestBuild_RemindersAndPending(t *testing.T) {
	loc := vancouver(t)
	sched, err := cron.ParseStandard("0 9 * * *")
	require.NoError(t, err)

	p := Build(testSnapshot(), testCatalog(), Options{Location: loc, ReminderSchedule: sched, ReminderDuration: 15 * time.Minute})

	var reminders []Event
	for _, ev := range p.Events {
		if ev.Kind == KindReminder {
			reminders = append(reminders, ev)
		}
	}
	// civil first (sorted), then family; each on personal and team.
	require.Len(t, reminders, 4)
	assert.Equal(t, []string{"civil", "civil", "family", "family"},
		[]string{reminders[0].TemplateID, reminders[1].TemplateID, reminders[2].TemplateID, reminders[3].TemplateID})
	assert.Equal(t, "personal", reminders[0].CalendarID)
	assert.Equal(t, "team", reminders[1].CalendarID)

	civil := reminders[0]
	assert.Equal(t, "File Statement of Defense", civil.Summary)
	assert.Equal(t, "reminder/civil/0", civil.Key)
	assert.Equal(t, "2025-07-23T09:00:00-07:00", civil.Start.Format(time.RFC3339))
	assert.Equal(t, 15*time.Minute, civil.End.Sub(civil.Start))
	assert.Equal(t, "2025-07-23", civil.DeadlineDate.String())
	assert.Contains(t, civil.Description, "Civil Litigation Package")
	assert.Contains(t, civil.Description, "21 business days before Trial Date (2025-08-22)")

	assert.Equal(t, []PendingDeadline{{
		TemplateID:     "civil",
		DeadlineName:   "Discovery Notice",
		ReferenceLabel: "Discovery Cutoff",
	}}, p.Pending)
}

func TestBuild_OverridesRestrictReminders(t *testing.T) {
	s := testSnapshot()
	s.TemplateReminderOverrides = selection.Overrides{"family": {"team": true}}

	p := Build(s, testCatalog(), Options{})
	got := map[string][]string{}
	for _, ev := range p.Events {
		if ev.Kind == KindReminder {
			got[ev.TemplateID] = append(got[ev.TemplateID], ev.CalendarID)
		}
	}
	assert.Equal(t, map[string][]string{
		"civil":  {"personal", "team"},
		"family": {"team"},
	}, got)
}

func TestBuild_OverrideForUnselectedCalendarIgnored(t *testing.T) {
	s := testSnapshot()
	s.TemplateReminderOverrides = selection.Overrides{"civil": {"archive": true}}

	p := Build(s, testCatalog(), Options{})
	for _, ev := range p.Events {
		assert.False(t, ev.Kind == KindReminder && ev.TemplateID == "civil", "civil reminders only go to archive, which is not selected")
	}
}

func TestBuild_NoTrialDate(t *testing.T) {
	s := testSnapshot()
	s.Trial.TrialDate = model.Date{}

	p := Build(s, nil, Options{})
	for _, ev := range p.Events {
		assert.Equal(t, KindReminder, ev.Kind)
	}
	// Without a catalog the template id stands in for its name.
	require.NotEmpty(t, p.Events)
	assert.Contains(t, p.Events[0].Description, "civil")
}

func TestReminderStart(t *testing.T) {
	d := model.MustParseDate("2025-07-23") // Wednesday

	assert.Equal(t, d.Time(), reminderStart(d, Options{}.normalized()), "no schedule means midnight")

	mondays, err := cron.ParseStandard("0 9 * * 1")
	require.NoError(t, err)
	got := reminderStart(d, Options{ReminderSchedule: mondays}.normalized())
	assert.Equal(t, "2025-07-23T00:00:00Z", got.Format(time.RFC3339), "firing after the deadline date falls back to midnight")

	midnight, err := cron.ParseStandard("0 0 * * *")
	require.NoError(t, err)
	got = reminderStart(d, Options{ReminderSchedule: midnight}.normalized())
	assert.Equal(t, "2025-07-23T00:00:00Z", got.Format(time.RFC3339))
}

func TestBuild_EmptySnapshot(t *testing.T) {
	p := Build(draft.Snapshot{}, nil, Options{})
	assert.Empty(t, p.Events)
	assert.Empty(t, p.Pending)
	assert.NotNil(t, p.Events)
}

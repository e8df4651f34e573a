// Package selection tracks which calendars receive trial events and
// deadline reminders, plus per-template reminder overrides.
package selection

import "sort"

// Selection is the serialisable view of target and reminder calendars.
// Ids are sorted.
type Selection struct {
	TargetCalendars   []string `json:"targetCalendars"`
	ReminderCalendars []string `json:"reminderCalendars"`
}

// Overrides maps template id to calendar id to whether that template's
// reminders go to that calendar. A missing entry means "use the default".
type Overrides map[string]map[string]bool

// Clone returns a deep copy.
func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	for tpl, cals := range o {
		inner := make(map[string]bool, len(cals))
		for id, v := range cals {
			inner[id] = v
		}
		out[tpl] = inner
	}
	return out
}

// Lookup returns the override for (templateID, calendarID) if one is set.
func (o Overrides) Lookup(templateID, calendarID string) (value, ok bool) {
	value, ok = o[templateID][calendarID]
	return value, ok
}

// Receives reports whether templateID's reminders go to calendarID, given
// that calendarID is a selected reminder calendar. A template with no
// overrides reminds on every reminder calendar; otherwise only on the
// calendars switched on for it.
func (o Overrides) Receives(templateID, calendarID string) bool {
	inner := o[templateID]
	if len(inner) == 0 {
		return true
	}
	return inner[calendarID]
}

// Model holds calendar membership. It is not safe for concurrent use; the
// owning draft serialises access.
type Model struct {
	dir       *Directory
	targets   map[string]struct{}
	reminders map[string]struct{}
	overrides Overrides
}

// NewModel returns an empty selection. dir may be nil, in which case no
// calendar is treated as read-only.
func NewModel(dir *Directory) *Model {
	return &Model{
		dir:       dir,
		targets:   make(map[string]struct{}),
		reminders: make(map[string]struct{}),
		overrides: make(Overrides),
	}
}

// ToggleTarget flips calendarID's membership in the target set. It reports
// false, changing nothing, when the calendar is read-only.
func (m *Model) ToggleTarget(calendarID string) bool {
	if m.dir.ReadOnly(calendarID) {
		return false
	}
	flip(m.targets, calendarID)
	return true
}

// ToggleReminder flips calendarID's membership in the reminder set. It
// reports false, changing nothing, when the calendar is read-only.
// Overrides recorded for the calendar survive its removal.
func (m *Model) ToggleReminder(calendarID string) bool {
	if m.dir.ReadOnly(calendarID) {
		return false
	}
	flip(m.reminders, calendarID)
	return true
}

// ToggleTemplateOverride flips overrides[templateID][calendarID], treating
// an unset entry as false, and returns the new value. A false entry is
// stored as absent so that two toggles restore the previous map exactly.
func (m *Model) ToggleTemplateOverride(templateID, calendarID string) bool {
	inner := m.overrides[templateID]
	if inner[calendarID] {
		delete(inner, calendarID)
		if len(inner) == 0 {
			delete(m.overrides, templateID)
		}
		return false
	}
	if inner == nil {
		inner = make(map[string]bool)
		m.overrides[templateID] = inner
	}
	inner[calendarID] = true
	return true
}

func (m *Model) IsTarget(calendarID string) bool {
	_, ok := m.targets[calendarID]
	return ok
}

func (m *Model) IsReminder(calendarID string) bool {
	_, ok := m.reminders[calendarID]
	return ok
}

// Selection returns a sorted copy of both sets.
func (m *Model) Selection() Selection {
	return Selection{
		TargetCalendars:   sortedKeys(m.targets),
		ReminderCalendars: sortedKeys(m.reminders),
	}
}

// Overrides returns a deep copy of the override map.
func (m *Model) Overrides() Overrides {
	return m.overrides.Clone()
}

func flip(set map[string]struct{}, id string) {
	if _, ok := set[id]; ok {
		delete(set, id)
		return
	}
	set[id] = struct{}{}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

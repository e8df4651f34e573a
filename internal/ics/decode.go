package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "github.com/Anthonyjrchen/LegalClerk/internal/log"
	"github.com/Anthonyjrchen/LegalClerk/internal/plan"
)

// Entry is a VEVENT read back from an exported calendar.
type Entry struct {
	UID         string    `json:"uid"`
	CalendarID  string    `json:"calendarId"`
	Kind        plan.Kind `json:"kind"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	AllDay      bool      `json:"allDay"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// Decode parses an ICS payload into entries.
//
//   - Events without a UID are logged and skipped.
//   - All-day is detected from VALUE=DATE or a DTSTART without a time part.
//   - Events from other producers decode with empty CalendarID and Kind.
func Decode(body []byte) ([]Entry, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err)
		return nil, err
	}

	entries := make([]Entry, 0)
	for _, ve := range cal.Events() {
		e, perr := decodeVEvent(ve)
		if perr != nil {
			appLog.Error("ics vevent parse failed", perr)
			continue
		}
		entries = append(entries, e)
	}

	appLog.Debug("ics parse completed", "event_count", len(entries))
	return entries, nil
}

func decodeVEvent(ve *ical.VEvent) (Entry, error) {
	var out Entry

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(PropertyCalendar); p != nil {
		out.CalendarID = p.Value
	}
	if p := ve.GetProperty(PropertyKind); p != nil {
		out.Kind = plan.Kind(p.Value)
	}

	if dtStart := ve.GetProperty(ical.ComponentPropertyDtStart); dtStart != nil {
		if vs, ok := dtStart.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		}
		if !strings.Contains(dtStart.Value, "T") {
			out.AllDay = true
		}
	}

	var err error
	if out.AllDay {
		if out.Start, err = ve.GetAllDayStartAt(); err != nil {
			return out, err
		}
		out.End, _ = ve.GetAllDayEndAt()
	} else {
		if out.Start, err = ve.GetStartAt(); err != nil {
			return out, err
		}
		out.End, _ = ve.GetEndAt()
	}
	return out, nil
}

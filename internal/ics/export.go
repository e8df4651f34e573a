package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "github.com/Anthonyjrchen/LegalClerk/internal/log"
	"github.com/Anthonyjrchen/LegalClerk/internal/plan"
)

const (
	// ProductID identifies exports in PRODID.
	ProductID = "-//LegalClerk//Trial Deadlines//EN"

	// PropertyCalendar carries the target calendar id on each VEVENT so a
	// single file can describe writes to several calendars.
	PropertyCalendar = ical.ComponentProperty("X-LEGALCLERK-CALENDAR")

	// PropertyKind is "trial" or "reminder".
	PropertyKind = ical.ComponentProperty("X-LEGALCLERK-KIND")
)

// EventUID returns the stable UID for ev. Re-exporting the same plan gives
// the same UIDs, so importers update rather than duplicate.
func EventUID(ev plan.Event) string {
	name := ev.CalendarID + "|" + ev.Key + "|" + ev.Start.Format("2006-01-02")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("legalclerk:"+name)).String()
}

// Export renders p as an RFC 5545 calendar. now stamps DTSTAMP.
func Export(p plan.Plan, now time.Time) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, ev := range p.Events {
		ve := cal.AddEvent(EventUID(ev))
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Summary)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Start)
			ve.SetAllDayEndAt(ev.End)
		} else {
			ve.SetStartAt(ev.Start)
			ve.SetEndAt(ev.End)
		}
		ve.SetProperty(PropertyCalendar, ev.CalendarID)
		ve.SetProperty(PropertyKind, string(ev.Kind))
	}

	out := cal.Serialize()
	appLog.Info("ics export completed", "event_count", len(p.Events), "pending", len(p.Pending), "bytes", len(out))
	return []byte(out)
}

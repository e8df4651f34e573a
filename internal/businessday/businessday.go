// Package businessday offsets calendar dates by calendar days or by
// Monday–Friday business days. There is no holiday calendar.
package businessday

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

var weekdays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}

// AddOffset returns ref moved by days. Negative days move into the past.
//
// In business-day mode the result is always a weekday and exactly |days|
// weekdays lie strictly between ref and the result; weekends are skipped
// and never counted. days == 0 returns ref unchanged in both modes, as does
// an empty ref.
func AddOffset(ref model.Date, days int, businessDaysOnly bool) model.Date {
	if days == 0 || ref.IsZero() {
		return ref
	}
	if !businessDaysOnly {
		return ref.AddDays(days)
	}

	// The result is the (|days|+1)-th weekday away from ref, ref excluded.
	n := days
	if n < 0 {
		n = -n
	}
	n++

	var (
		occ []time.Time
		err error
	)
	if days > 0 {
		occ, err = weekdaysAfter(ref, n)
	} else {
		occ, err = weekdaysBefore(ref, n)
	}
	if err != nil || len(occ) < n {
		return step(ref, days)
	}
	if days > 0 {
		return model.DateOf(occ[n-1])
	}
	return model.DateOf(occ[len(occ)-n])
}

// IsBusinessDay reports whether d falls Monday through Friday.
func IsBusinessDay(d model.Date) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BetweenExclusive counts the business days strictly between a and b, in
// either order.
func BetweenExclusive(a, b model.Date) int {
	if b.Before(a) {
		a, b = b, a
	}
	count := 0
	for d := a.AddDays(1); d.Before(b); d = d.AddDays(1) {
		if IsBusinessDay(d) {
			count++
		}
	}
	return count
}

// weekdaysAfter returns the first n weekdays after ref, ascending.
func weekdaysAfter(ref model.Date, n int) ([]time.Time, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Byweekday: weekdays,
		Dtstart:   ref.AddDays(1).Time(),
		Count:     n,
	})
	if err != nil {
		return nil, err
	}
	return r.All(), nil
}

// weekdaysBefore returns at least n weekdays ending the day before ref,
// ascending. The window is padded by two weeks so n always fits.
func weekdaysBefore(ref model.Date, n int) ([]time.Time, error) {
	span := (n/5 + 2) * 7
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Byweekday: weekdays,
		Dtstart:   ref.AddDays(-span).Time(),
		Until:     ref.AddDays(-1).Time(),
	})
	if err != nil {
		return nil, err
	}
	return r.All(), nil
}

// step walks one day at a time; used only if the rule cannot be built.
func step(ref model.Date, days int) model.Date {
	dir := 1
	if days < 0 {
		dir, days = -1, -days
	}
	d := ref
	for counted := -1; counted < days; {
		d = d.AddDays(dir)
		if IsBusinessDay(d) {
			counted++
		}
	}
	return d
}

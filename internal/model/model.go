package model

import (
	"errors"
	"fmt"
)

// ReferenceType names what a deadline rule counts back from.
type ReferenceType string

const (
	ReferenceTrialDate ReferenceType = "trial_date"
	ReferenceCustom    ReferenceType = "custom_reference"
)

// TrialDateLabel is the reference label shown for trial-date rules.
const TrialDateLabel = "Trial Date"

// DeadlineRule is one obligation inside a procedural template.
//
// A rule whose ReferenceType is anything other than "trial_date" resolves
// against the custom date named CustomReferenceName. Catalog data is not
// validated: a custom rule without a name simply never resolves.
type DeadlineRule struct {
	ID                  string        `yaml:"id" json:"id"`
	DeadlineName        string        `yaml:"deadline_name" json:"deadline_name"`
	DaysBefore          int           `yaml:"days_before" json:"days_before"`
	IsBusinessDays      bool          `yaml:"is_business_days" json:"is_business_days"`
	ReferenceType       ReferenceType `yaml:"reference_type" json:"reference_type"`
	CustomReferenceName string        `yaml:"custom_reference_name,omitempty" json:"custom_reference_name,omitempty"`
}

// Template is an immutable procedural package. Deadlines keep declaration
// order; that order is what callers display.
type Template struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"template_name" json:"template_name"`
	Description string         `yaml:"description" json:"description"`
	Deadlines   []DeadlineRule `yaml:"deadlines" json:"deadlines"`
}

// CustomDate is a user-defined reference date, matched by Name.
type CustomDate struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Date Date   `yaml:"date" json:"date"`
}

// CalculatedDeadline is the derived form of a DeadlineRule.
// An empty CalculatedDate means the reference date is not known yet.
type CalculatedDeadline struct {
	DeadlineName       string        `json:"deadline_name"`
	ReferenceLabel     string        `json:"reference_date"`
	ReferenceType      ReferenceType `json:"reference_type"`
	ReferenceDateValue Date          `json:"reference_date_value"`
	CalculatedDate     Date          `json:"calculated_date"`
	DaysBefore         int           `json:"days_before"`
	IsBusinessDays     bool          `json:"is_business_days"`
}

// Pending reports whether the deadline is still waiting on a reference date.
func (c CalculatedDeadline) Pending() bool { return c.CalculatedDate.IsZero() }

// TrialDuration is the enumerated trial length.
type TrialDuration string

const (
	DurationOneDay    TrialDuration = "1-day"
	DurationTwoDays   TrialDuration = "2-days"
	DurationThreeDays TrialDuration = "3-days"
	DurationOneWeek   TrialDuration = "1-week"
	DurationCustom    TrialDuration = "custom"
)

var ErrInvalidDuration = errors.New("invalid trial duration")

// ParseTrialDuration accepts the enumerated values and "" (unset).
func ParseTrialDuration(s string) (TrialDuration, error) {
	switch d := TrialDuration(s); d {
	case "", DurationOneDay, DurationTwoDays, DurationThreeDays, DurationOneWeek, DurationCustom:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
}

// days returns the number of calendar days a fixed duration covers.
func (d TrialDuration) days() int {
	switch d {
	case DurationOneDay:
		return 1
	case DurationTwoDays:
		return 2
	case DurationThreeDays:
		return 3
	case DurationOneWeek:
		return 7
	default:
		return 0
	}
}

// TrialFields is the user-entered trial record. Only TrialDate influences
// deadline math; the rest is payload for the persistence collaborator.
type TrialFields struct {
	CourtFileNo     string        `yaml:"court_file_no" json:"courtFileNo"`
	StyleOfCause    string        `yaml:"style_of_cause" json:"styleOfCause"`
	TrialDate       Date          `yaml:"trial_date" json:"trialDate"`
	TrialDuration   TrialDuration `yaml:"trial_duration" json:"trialDuration"`
	CustomStartDate Date          `yaml:"custom_start_date" json:"customStartDate"`
	CustomEndDate   Date          `yaml:"custom_end_date" json:"customEndDate"`
	Notes           string        `yaml:"notes" json:"notes"`
}

// Span returns the first and last day of the trial. Fixed durations run for
// consecutive days from TrialDate; "custom" uses the custom start/end dates.
// ok is false when the span cannot be determined.
func (f TrialFields) Span() (first, last Date, ok bool) {
	if f.TrialDuration == DurationCustom {
		first, last = f.CustomStartDate, f.CustomEndDate
		if first.IsZero() {
			return Date{}, Date{}, false
		}
		if last.IsZero() || last.Before(first) {
			last = first
		}
		return first, last, true
	}
	if f.TrialDate.IsZero() {
		return Date{}, Date{}, false
	}
	n := f.TrialDuration.days()
	if n == 0 {
		n = 1
	}
	return f.TrialDate, f.TrialDate.AddDays(n - 1), true
}

// Package deadline turns selected templates and reference dates into
// concrete deadline dates.
package deadline

import (
	"github.com/Anthonyjrchen/LegalClerk/internal/businessday"
	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

// Templates is the catalog view the resolver needs.
type Templates interface {
	Get(id string) (model.Template, bool)
}

// Resolve computes the calculated deadlines of every selected template.
// Rules keep their declaration order. Unknown template ids are skipped.
// The output is rebuilt from scratch on each call.
func Resolve(selected []string, templates Templates, trialDate model.Date, customDates []model.CustomDate) map[string][]model.CalculatedDeadline {
	out := make(map[string][]model.CalculatedDeadline, len(selected))
	for _, id := range selected {
		tpl, ok := templates.Get(id)
		if !ok {
			continue
		}
		calculated := make([]model.CalculatedDeadline, 0, len(tpl.Deadlines))
		for _, rule := range tpl.Deadlines {
			calculated = append(calculated, Calculate(rule, trialDate, customDates))
		}
		out[id] = calculated
	}
	return out
}

// Calculate resolves a single rule.
func Calculate(rule model.DeadlineRule, trialDate model.Date, customDates []model.CustomDate) model.CalculatedDeadline {
	label, ref := Reference(rule, trialDate, customDates)
	cd := model.CalculatedDeadline{
		DeadlineName:       rule.DeadlineName,
		ReferenceLabel:     label,
		ReferenceType:      rule.ReferenceType,
		ReferenceDateValue: ref,
		DaysBefore:         rule.DaysBefore,
		IsBusinessDays:     rule.IsBusinessDays,
	}
	if !ref.IsZero() {
		cd.CalculatedDate = businessday.AddOffset(ref, -rule.DaysBefore, rule.IsBusinessDays)
	}
	return cd
}

// Reference returns the label and date a rule counts back from. Custom
// references match the first custom date whose name is exactly equal; an
// empty date means the reference is not resolvable yet.
func Reference(rule model.DeadlineRule, trialDate model.Date, customDates []model.CustomDate) (string, model.Date) {
	if rule.ReferenceType == model.ReferenceTrialDate {
		return model.TrialDateLabel, trialDate
	}
	if rule.CustomReferenceName == "" {
		return "", model.Date{}
	}
	for _, cd := range customDates {
		if cd.Name == rule.CustomReferenceName {
			return rule.CustomReferenceName, cd.Date
		}
	}
	return rule.CustomReferenceName, model.Date{}
}

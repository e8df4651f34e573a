package catalog

import "github.com/Anthonyjrchen/LegalClerk/internal/model"

// Default returns the built-in packages offered when no catalog file is
// configured.
func Default() *Catalog {
	return New(
		model.Template{
			ID:          "1",
			Name:        "Civil Litigation Package",
			Description: "Standard deadlines for civil litigation cases",
			Deadlines: []model.DeadlineRule{
				trialRule("1", "File Statement of Defense", 21),
				trialRule("2", "Discovery Deadline", 120),
				trialRule("3", "Expert Report Deadline", 90),
			},
		},
		model.Template{
			ID:          "2",
			Name:        "Family Law Package",
			Description: "Deadlines for family law proceedings",
			Deadlines: []model.DeadlineRule{
				trialRule("4", "File Financial Statement", 30),
				trialRule("5", "Parenting Assessment Due", 60),
			},
		},
		model.Template{
			ID:          "3",
			Name:        "Criminal Defense Package",
			Description: "Standard deadlines for criminal defense cases",
			Deadlines: []model.DeadlineRule{
				trialRule("6", "Disclosure Review", 45),
				trialRule("7", "Expert Evidence Notice", 30),
			},
		},
	)
}

func trialRule(id, name string, daysBefore int) model.DeadlineRule {
	return model.DeadlineRule{
		ID:             id,
		DeadlineName:   name,
		DaysBefore:     daysBefore,
		IsBusinessDays: true,
		ReferenceType:  model.ReferenceTrialDate,
	}
}

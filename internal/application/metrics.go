package application

import (
	"github.com/meridianhq/meridian/internal/domain/model"
)

// automationLanguages is the language set counted toward the automation score:
// ecosystems with first-class scripting and CI tooling support.
var automationLanguages = map[string]bool{
	"TypeScript": true,
	"JavaScript": true,
	"Python":     true,
	"Go":         true,
	"Rust":       true,
}

// ComputeDevOpsMetrics maps a list of repository records to a bounded composite
// score object. Each category accumulates heuristic points per repository, is
// averaged over the list length, and clamped to [0,100]. The overall score is
// the floor of the combined raw totals over N*4, clamped to the same range.
//
// An empty list yields the zero DevOpsMetrics value rather than dividing by
// zero. The point values are presentation heuristics, not validated metrics.
func ComputeDevOpsMetrics(repos []model.Repository) model.DevOpsMetrics {
	if len(repos) == 0 {
		return model.DevOpsMetrics{}
	}

	var ciTotal, securityTotal, docTotal, automationTotal int

	for _, repo := range repos {
		switch repo.Language {
		case "TypeScript", "JavaScript":
			ciTotal += 20
		case "Python":
			ciTotal += 15
		}

		if !repo.Private {
			securityTotal += 10
		}
		if repo.Stars > 5 {
			securityTotal += 15
		}

		if len(repo.Description) > 20 {
			docTotal += 25
		}

		if automationLanguages[repo.Language] {
			automationTotal += 20
		}
	}

	n := len(repos)

	return model.DevOpsMetrics{
		OverallScore:         clampScore((ciTotal + securityTotal + docTotal + automationTotal) / (n * 4)),
		CICDScore:            clampScore(ciTotal / n),
		SecurityScore:        clampScore(securityTotal / n),
		DocumentationScore:   clampScore(docTotal / n),
		AutomationScore:      clampScore(automationTotal / n),
		RepositoriesAnalyzed: n,
		TotalRepositories:    n,
	}
}

// clampScore bounds a score to [0,100].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

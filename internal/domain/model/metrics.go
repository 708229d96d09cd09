package model

// DevOpsMetrics is the bounded composite score object derived from a list of
// repository records. All scores are in [0,100]. Recomputed on every fetch,
// never persisted.
type DevOpsMetrics struct {
	OverallScore         int
	CICDScore            int
	SecurityScore        int
	DocumentationScore   int
	AutomationScore      int
	RepositoriesAnalyzed int
	TotalRepositories    int
}

// PatternAnalysis is the result of scanning a repository's key files for
// DevOps tooling signals. Scores are point totals in [0,100].
type PatternAnalysis struct {
	CICDScore          int
	SecurityScore      int
	DocumentationScore int
	AutomationScore    int
	DetectedTools      []string
	MissingEssentials  []string
}

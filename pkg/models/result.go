package models

// RunReport contains the counters of a single backfill run
type RunReport struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	TotalIssues int `json:"total_issues"` // open issues fetched
	Existing    int `json:"existing"`     // already in the index
	New         int `json:"new"`
	DurationMs  int `json:"duration_ms"`
}

// SuccessRate returns succeeded/processed as a percentage.
// ok is false when nothing was processed.
func (r *RunReport) SuccessRate() (rate float64, ok bool) {
	if r.Processed == 0 {
		return 0, false
	}
	return float64(r.Succeeded) / float64(r.Processed) * 100, true
}

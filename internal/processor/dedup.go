package processor

import "github.com/Kavirubc/simili-backfill/pkg/models"

// SelectNew returns the issues whose numbers are not in existing, in input order
func SelectNew(issues []*models.Issue, existing map[int]struct{}) []*models.Issue {
	selected := make([]*models.Issue, 0, len(issues))
	for _, issue := range issues {
		if _, ok := existing[issue.Number]; ok {
			continue
		}
		selected = append(selected, issue)
	}
	return selected
}

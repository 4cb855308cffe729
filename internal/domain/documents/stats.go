package documents

import "strings"

// Category is the bucket an issue type falls into.
type Category string

const (
	CategoryFallacy   Category = "fallacy"
	CategoryBias      Category = "bias"
	CategoryHeuristic Category = "heuristic"
	CategoryNone      Category = ""
)

// Categorize buckets an issue type by substring, in priority order
// "fallac", "bias", "heuristic". A type matching none yields CategoryNone.
func Categorize(issueType string) Category {
	t := strings.ToLower(issueType)
	switch {
	case strings.Contains(t, "fallac"):
		return CategoryFallacy
	case strings.Contains(t, "bias"):
		return CategoryBias
	case strings.Contains(t, "heuristic"):
		return CategoryHeuristic
	}
	return CategoryNone
}

// ComputeStats derives the dashboard statistics from the result set.
// Pure: recomputed from scratch on each call, no state kept between calls.
func ComputeStats(results []Result) Stats {
	st := Stats{TotalDocuments: len(results)}

	running := make(map[string]int)
	for _, doc := range results {
		for _, is := range doc.Issues {
			switch Categorize(is.Type) {
			case CategoryFallacy:
				st.IssueTypes.Fallacies += is.Count
			case CategoryBias:
				st.IssueTypes.Biases += is.Count
			case CategoryHeuristic:
				st.IssueTypes.Heuristics += is.Count
			}

			running[is.Type] += is.Count
			// strict >, the first type to reach a total keeps the lead on ties
			if st.MostCommonIssue == nil || running[is.Type] > st.MostCommonIssue.Count {
				st.MostCommonIssue = &IssueCount{Type: is.Type, Count: running[is.Type]}
			}
		}
	}

	st.TotalIssues = st.IssueTypes.Fallacies + st.IssueTypes.Biases + st.IssueTypes.Heuristics
	return st
}

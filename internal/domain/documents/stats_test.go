package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(name string, issues ...Issue) Result {
	return Result{ID: DocumentID(name), Name: name, Status: StatusCompleted, Issues: issues}
}

func issue(t string, n int) Issue { return Issue{Type: t, Count: n} }

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil)
	assert.Equal(t, 0, st.TotalDocuments)
	assert.Equal(t, CategoryCounts{}, st.IssueTypes)
	assert.Equal(t, 0, st.TotalIssues)
	assert.Nil(t, st.MostCommonIssue)
}

func TestComputeStats_DocumentsWithoutIssues(t *testing.T) {
	st := ComputeStats([]Result{doc("a"), doc("b")})
	assert.Equal(t, 2, st.TotalDocuments)
	assert.Nil(t, st.MostCommonIssue)
}

func TestComputeStats_SumsAcrossDocuments(t *testing.T) {
	st := ComputeStats([]Result{
		doc("a", issue(TypeConfirmationBias, 3)),
		doc("b", issue(TypeConfirmationBias, 5)),
	})
	require.NotNil(t, st.MostCommonIssue)
	assert.Equal(t, IssueCount{Type: TypeConfirmationBias, Count: 8}, *st.MostCommonIssue)
	assert.Equal(t, 8, st.IssueTypes.Biases)
	assert.Equal(t, 8, st.TotalIssues)
}

func TestComputeStats_TieKeepsFirst(t *testing.T) {
	st := ComputeStats([]Result{
		doc("a", issue(TypeAnchoringBias, 2)),
		doc("b", issue(TypeFalseDichotomy, 2)),
	})
	require.NotNil(t, st.MostCommonIssue)
	assert.Equal(t, IssueCount{Type: TypeAnchoringBias, Count: 2}, *st.MostCommonIssue)
}

func TestComputeStats_LeaderOvertaken(t *testing.T) {
	st := ComputeStats([]Result{
		doc("a", issue(TypeAnchoringBias, 4), issue(TypeRepresentativeness, 3)),
		doc("b", issue(TypeRepresentativeness, 2)),
	})
	require.NotNil(t, st.MostCommonIssue)
	assert.Equal(t, IssueCount{Type: TypeRepresentativeness, Count: 5}, *st.MostCommonIssue)
}

func TestComputeStats_Categorisation(t *testing.T) {
	st := ComputeStats([]Result{
		doc("a",
			issue(TypeConfirmationBias, 1),
			issue(TypeAdHominemFallacy, 2),
			issue(TypeFalseDichotomy, 4),     // no bucket
			issue(TypeAvailabilityHeuristic, 8),
			issue(TypeRepresentativeness, 16), // no bucket
			issue("Biased Fallacy Heuristic", 32),
		),
	})

	assert.Equal(t, CategoryCounts{Fallacies: 34, Biases: 1, Heuristics: 8}, st.IssueTypes)
	assert.Equal(t, st.IssueTypes.Fallacies+st.IssueTypes.Biases+st.IssueTypes.Heuristics, st.TotalIssues)
	assert.Equal(t, 43, st.TotalIssues)
	// the most common type can be one that lands in no bucket
	assert.Equal(t, "Biased Fallacy Heuristic", st.MostCommonIssue.Type)
}

func TestComputeStats_DuplicateTypesWithinDocument(t *testing.T) {
	st := ComputeStats([]Result{
		doc("a", issue(TypeAnchoringBias, 1), issue(TypeAnchoringBias, 1)),
	})
	assert.Equal(t, 2, st.IssueTypes.Biases)
	assert.Equal(t, 2, st.MostCommonIssue.Count)
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryFallacy, Categorize("SUNK COST FALLACY"))
	assert.Equal(t, CategoryBias, Categorize("hindsight bias"))
	assert.Equal(t, CategoryHeuristic, Categorize("Affect Heuristic"))
	assert.Equal(t, CategoryNone, Categorize(TypeRepresentativeness))
	assert.Equal(t, CategoryFallacy, Categorize("bias fallacy"))
}

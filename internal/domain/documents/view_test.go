package documents

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(rs []Result) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func fixture() []Result {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rs := []Result{
		doc("Zeta", issue(TypeConfirmationBias, 1)),
		doc("Alpha", issue(TypeAdHominemFallacy, 5), issue(TypeRepresentativeness, 1)),
		doc("Mu", issue(TypeAvailabilityHeuristic, 2)),
	}
	for i := range rs {
		rs[i].UploadedAt = base.Add(time.Duration(i) * time.Minute)
	}
	return rs
}

func TestView_SortByName(t *testing.T) {
	q := Query{SortField: SortByName, SortAscending: true, Filter: FilterAll}
	assert.Equal(t, []string{"Alpha", "Mu", "Zeta"}, names(View(fixture(), q)))

	q.SortAscending = false
	assert.Equal(t, []string{"Zeta", "Mu", "Alpha"}, names(View(fixture(), q)))
}

func TestView_SortByIssues(t *testing.T) {
	q := Query{SortField: SortByIssues, SortAscending: true, Filter: FilterAll}
	assert.Equal(t, []string{"Zeta", "Mu", "Alpha"}, names(View(fixture(), q)))

	q.SortAscending = false
	assert.Equal(t, []string{"Alpha", "Mu", "Zeta"}, names(View(fixture(), q)))
}

func TestView_SortByDate(t *testing.T) {
	q := DefaultQuery()
	assert.Equal(t, []string{"Mu", "Alpha", "Zeta"}, names(View(fixture(), q)))

	q.SortAscending = true
	assert.Equal(t, []string{"Zeta", "Alpha", "Mu"}, names(View(fixture(), q)))
}

func TestView_SortByDateStableWithinBatch(t *testing.T) {
	rs := fixture()
	for i := range rs {
		rs[i].UploadedAt = time.Time{}
	}
	for _, asc := range []bool{true, false} {
		q := Query{SortField: SortByDate, SortAscending: asc, Filter: FilterAll}
		assert.Equal(t, []string{"Zeta", "Alpha", "Mu"}, names(View(rs, q)))
	}
}

func TestView_Filter(t *testing.T) {
	rs := fixture()
	cases := map[FilterType][]string{
		FilterAll:       {"Zeta", "Alpha", "Mu"},
		FilterBias:      {"Zeta"},
		FilterFallacy:   {"Alpha"},
		FilterHeuristic: {"Mu"},
	}
	for f, want := range cases {
		t.Run(string(f), func(t *testing.T) {
			q := Query{SortField: SortByDate, SortAscending: true, Filter: f}
			assert.Equal(t, want, names(View(rs, q)))
		})
	}
}

func TestView_FilterBiasIgnoresSearchMatch(t *testing.T) {
	rs := []Result{
		doc("bias-notes.txt", issue(TypeFalseDichotomy, 1)),
		doc("plain.txt", issue("confirmation BIAS", 1)),
	}
	q := Query{SearchText: "", SortField: SortByName, SortAscending: true, Filter: FilterBias}
	assert.Equal(t, []string{"plain.txt"}, names(View(rs, q)))

	q.SearchText = "bias"
	assert.Empty(t, View(rs, q))
}

func TestView_SearchCaseInsensitive(t *testing.T) {
	q := Query{SearchText: "ALP", SortField: SortByName, Filter: FilterAll}
	assert.Equal(t, []string{"Alpha"}, names(View(fixture(), q)))

	q.SearchText = "nothing"
	out := View(fixture(), q)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestView_IdempotentAndReadOnly(t *testing.T) {
	rs := fixture()
	before := fixture()
	q := Query{SortField: SortByName, SortAscending: true, Filter: FilterAll}

	first := View(rs, q)
	second := View(rs, q)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("View not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, rs); diff != "" {
		t.Fatalf("View mutated its input (-before +after):\n%s", diff)
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultQuery(), q)

	q, err = ParseQuery("report", "Issues", "true", "FALLACY")
	require.NoError(t, err)
	assert.Equal(t, Query{SearchText: "report", SortField: SortByIssues, SortAscending: true, Filter: FilterFallacy}, q)

	_, err = ParseQuery("", "size", "", "")
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = ParseQuery("", "", "", "emotion")
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = ParseQuery("", "", "maybe", "")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

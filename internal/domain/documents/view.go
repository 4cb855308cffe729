package documents

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SortField enum
type SortField string

const (
	SortByName   SortField = "name"
	SortByIssues SortField = "issues"
	SortByDate   SortField = "date"
)

// FilterType enum
type FilterType string

const (
	FilterAll       FilterType = "all"
	FilterBias      FilterType = "bias"
	FilterFallacy   FilterType = "fallacy"
	FilterHeuristic FilterType = "heuristic"
)

// filterNeedles maps a filter to the lower-case substring it looks for.
var filterNeedles = map[FilterType]string{
	FilterBias:      "bias",
	FilterFallacy:   "fallac",
	FilterHeuristic: "heuristic",
}

// Query holds the list view parameters.
type Query struct {
	SearchText    string     `json:"search"`
	SortField     SortField  `json:"sort"`
	SortAscending bool       `json:"asc"`
	Filter        FilterType `json:"filter"`
}

// DefaultQuery matches the dashboard's initial state: newest first, no filter.
func DefaultQuery() Query {
	return Query{SortField: SortByDate, Filter: FilterAll}
}

// ParseQuery builds a Query from raw string parameters. Empty values keep
// the defaults; unknown sort/filter values wrap ErrInvalidQuery.
func ParseQuery(search, sortField, asc, filter string) (Query, error) {
	q := DefaultQuery()
	q.SearchText = search

	if sortField != "" {
		switch f := SortField(strings.ToLower(sortField)); f {
		case SortByName, SortByIssues, SortByDate:
			q.SortField = f
		default:
			return Query{}, fmt.Errorf("%w: sort %q (allowed: name, issues, date)", ErrInvalidQuery, sortField)
		}
	}

	if filter != "" {
		switch f := FilterType(strings.ToLower(filter)); f {
		case FilterAll, FilterBias, FilterFallacy, FilterHeuristic:
			q.Filter = f
		default:
			return Query{}, fmt.Errorf("%w: filter %q (allowed: all, bias, fallacy, heuristic)", ErrInvalidQuery, filter)
		}
	}

	if asc != "" {
		b, err := strconv.ParseBool(asc)
		if err != nil {
			return Query{}, fmt.Errorf("%w: asc %q", ErrInvalidQuery, asc)
		}
		q.SortAscending = b
	}
	return q, nil
}

// View filters and sorts the result set for display. The input slice is
// never modified; the returned slice is always a fresh one.
func View(results []Result, q Query) []Result {
	search := strings.ToLower(q.SearchText)

	out := make([]Result, 0, len(results))
	for _, doc := range results {
		if !strings.Contains(strings.ToLower(doc.Name), search) {
			continue
		}
		if !matchesFilter(doc, q.Filter) {
			continue
		}
		out = append(out, doc)
	}

	var less func(a, b *Result) bool
	switch q.SortField {
	case SortByName:
		less = func(a, b *Result) bool { return a.Name < b.Name }
	case SortByIssues:
		less = func(a, b *Result) bool { return a.IssueTotal() < b.IssueTotal() }
	default:
		less = func(a, b *Result) bool { return a.UploadedAt.Before(b.UploadedAt) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.SortAscending {
			return less(&out[i], &out[j])
		}
		return less(&out[j], &out[i])
	})
	return out
}

func matchesFilter(doc Result, f FilterType) bool {
	needle, ok := filterNeedles[f]
	if !ok {
		return true
	}
	for _, is := range doc.Issues {
		if strings.Contains(strings.ToLower(is.Type), needle) {
			return true
		}
	}
	return false
}

package advice

import (
	"regexp"
	"strings"

	"github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

// recommendationBlocks are tested in order; an issue contributes the block
// of the first pattern it matches only.
var recommendationBlocks = []struct {
	re    *regexp.Regexp
	items []string
}{
	{regexp.MustCompile(`(?i)bias`), []string{
		"Implement a structured decision-making framework with pre-defined criteria for investment decisions.",
		"Establish regular portfolio review sessions with documented contrary viewpoints.",
		"Create a systematic approach to challenge existing investment theses.",
	}},
	{regexp.MustCompile(`(?i)fallacy`), []string{
		"Develop quantitative metrics for evaluating investment opportunities.",
		"Implement a peer review process for major investment decisions.",
		"Create standardized documentation for investment rationale and risk assessment.",
	}},
	{regexp.MustCompile(`(?i)heuristic`), []string{
		"Build a comprehensive market analysis framework incorporating multiple data sources.",
		"Establish regular review cycles for investment assumptions and mental models.",
		"Implement systematic risk management protocols with clear triggers.",
	}},
}

// Recommendations builds the deduplicated, insertion-ordered strategic
// recommendations for a document's issues.
func Recommendations(issues []documents.Issue) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, is := range issues {
		for _, blk := range recommendationBlocks {
			if !blk.re.MatchString(is.Type) {
				continue
			}
			for _, item := range blk.items {
				if !seen[item] {
					seen[item] = true
					out = append(out, item)
				}
			}
			break
		}
	}
	return out
}

// IssueDetail is the rendered view of one issue.
type IssueDetail struct {
	Type                 string                 `json:"type"`
	Count                int                    `json:"count"`
	Sections             []documents.SectionRef `json:"sections"`
	Description          string                 `json:"description"`
	FinancialImplication string                 `json:"financialImplication"`
	MitigationStrategy   string                 `json:"mitigationStrategy"`
	ActionSteps          []string               `json:"actionSteps"`
}

// Overview counts issue entries per category for one document. Each
// category is matched independently, so a type can count twice.
type Overview struct {
	Biases     int `json:"biases"`
	Fallacies  int `json:"fallacies"`
	Heuristics int `json:"heuristics"`
}

// Report is the detailed per-document analysis report.
type Report struct {
	ID              documents.DocumentID `json:"id"`
	Name            string               `json:"name"`
	Status          documents.Status     `json:"status"`
	Overview        Overview             `json:"overview"`
	Issues          []IssueDetail        `json:"issues"`
	Recommendations []string             `json:"recommendations"`
}

// BuildReport renders the detail report for a result.
func BuildReport(doc *documents.Result) Report {
	rep := Report{
		ID:              doc.ID,
		Name:            doc.Name,
		Status:          doc.Status,
		Issues:          make([]IssueDetail, 0, len(doc.Issues)),
		Recommendations: Recommendations(doc.Issues),
	}

	for _, is := range doc.Issues {
		t := strings.ToLower(is.Type)
		if strings.Contains(t, "bias") {
			rep.Overview.Biases++
		}
		if strings.Contains(t, "fallac") {
			rep.Overview.Fallacies++
		}
		if strings.Contains(t, "heuristic") {
			rep.Overview.Heuristics++
		}

		rep.Issues = append(rep.Issues, IssueDetail{
			Type:                 is.Type,
			Count:                is.Count,
			Sections:             is.Sections,
			Description:          Description(is.Type),
			FinancialImplication: FinancialImplication(is.Type),
			MitigationStrategy:   MitigationStrategy(is.Type),
			ActionSteps:          ActionSteps(is.Type),
		})
	}
	return rep
}

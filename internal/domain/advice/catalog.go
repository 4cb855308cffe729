// Package advice holds the static remediation text shown in document reports.
// Every lookup is keyed by the exact issue type; unknown types fall back to
// generic text and never fail.
package advice

import "github.com/bryanwahyu/insights-workspace/internal/domain/documents"

const (
	genericContext     = "May impact financial analysis and decision-making"
	genericDescription = "A cognitive pattern that may affect investment decision-making and risk assessment."
	genericImplication = "May significantly impact investment decision-making and risk assessment processes."
	genericMitigation  = "Implement systematic decision-making processes and regular review mechanisms."
	// one step condensing the dashboard's three fallback steps
	// (document the process, review regularly, seek external validation)
	genericActionStep  = "Document the decision-making process, review it regularly and seek external validation when appropriate."
)

var contexts = map[string]string{
	documents.TypeConfirmationBias:      "May affect investment decisions by favoring confirming evidence",
	documents.TypeAnchoringBias:         "Could lead to price anchoring in market analysis",
	documents.TypeAdHominemFallacy:      "May impact credibility assessment of market analysts",
	documents.TypeFalseDichotomy:        "Could oversimplify complex market scenarios",
	documents.TypeAvailabilityHeuristic: "Might overweight recent market events",
	documents.TypeRepresentativeness:    "Could lead to pattern-seeking in random market movements",
}

var descriptions = map[string]string{
	documents.TypeConfirmationBias:      "The tendency to search for, interpret, and recall information in a way that confirms one's preexisting beliefs or investment theses.",
	documents.TypeAnchoringBias:         "The tendency to rely too heavily on the first piece of information encountered (such as a stock's purchase price) when making investment decisions.",
	documents.TypeAdHominemFallacy:      "Dismissing market analysis or investment advice based on personal characteristics of the source rather than the merits of the argument.",
	documents.TypeFalseDichotomy:        `Oversimplifying market conditions into an "either/or" scenario when multiple outcomes or strategies might be viable.`,
	documents.TypeAvailabilityHeuristic: "Making investment decisions based on easily recalled events or recent market movements rather than comprehensive analysis.",
	documents.TypeRepresentativeness:    "Assuming that similar market conditions or company characteristics will lead to similar outcomes.",
}

var implications = map[string]string{
	documents.TypeConfirmationBias:      "May lead to overlooking critical market signals that contradict your investment thesis, potentially missing important sell indicators or risk factors.",
	documents.TypeAnchoringBias:         "Could result in missed opportunities by fixating on historical price points or valuations, preventing timely portfolio adjustments.",
	documents.TypeAdHominemFallacy:      "Might cause dismissal of valuable market insights based on personal biases against analysts or sources, limiting your information advantage.",
	documents.TypeFalseDichotomy:        "Can lead to missed investment opportunities by oversimplifying market conditions and failing to consider multiple scenarios.",
	documents.TypeAvailabilityHeuristic: "May result in overreaction to recent market events while ignoring long-term trends and fundamentals.",
	documents.TypeRepresentativeness:    "Could lead to pattern-based trading without sufficient statistical evidence, potentially increasing portfolio risk.",
}

var mitigations = map[string]string{
	documents.TypeConfirmationBias:      "Actively seek out and document contradictory evidence to your investment thesis. Establish pre-defined exit criteria.",
	documents.TypeAnchoringBias:         "Use multiple valuation methods and regularly reassess positions based on current market conditions, not historical reference points.",
	documents.TypeAdHominemFallacy:      "Implement a systematic approach to evaluate arguments based on data and logic, regardless of the source.",
	documents.TypeFalseDichotomy:        "Develop scenario analysis incorporating multiple possible outcomes and their probabilities.",
	documents.TypeAvailabilityHeuristic: "Create a structured analysis framework that considers both historical data and current market conditions.",
	documents.TypeRepresentativeness:    "Use quantitative analysis to verify perceived patterns and maintain a diversified portfolio.",
}

var actionSteps = map[string][]string{
	documents.TypeConfirmationBias: {
		"Document both supporting and contradicting evidence for each investment thesis",
		"Set up automated alerts for contrary indicators",
		"Regular peer review of investment decisions",
	},
	documents.TypeAnchoringBias: {
		"Establish multiple price targets using different valuation methods",
		"Regular portfolio rebalancing based on current market conditions",
		"Document reasoning for each position adjustment",
	},
	documents.TypeAdHominemFallacy: {
		"Create a structured evaluation framework for all investment research",
		"Blind review of investment recommendations when possible",
		"Focus on data-driven decision making",
	},
	documents.TypeFalseDichotomy: {
		"Map out at least three possible scenarios for each major market event",
		"Develop contingency plans for multiple outcomes",
		"Use probability-weighted analysis for decision making",
	},
	documents.TypeAvailabilityHeuristic: {
		"Maintain a comprehensive market event database",
		"Use systematic risk assessment tools",
		"Regular review of historical market cycles",
	},
	documents.TypeRepresentativeness: {
		"Conduct statistical analysis of perceived patterns",
		"Implement position sizing based on quantitative criteria",
		"Regular review of correlation assumptions",
	},
}

// Context returns the one-line impact note shown next to an issue in lists.
func Context(issueType string) string {
	if s, ok := contexts[issueType]; ok {
		return s
	}
	return genericContext
}

// Description explains what the issue type is.
func Description(issueType string) string {
	if s, ok := descriptions[issueType]; ok {
		return s
	}
	return genericDescription
}

// FinancialImplication describes the investment impact of the issue type.
func FinancialImplication(issueType string) string {
	if s, ok := implications[issueType]; ok {
		return s
	}
	return genericImplication
}

// MitigationStrategy returns the suggested counter-measure.
func MitigationStrategy(issueType string) string {
	if s, ok := mitigations[issueType]; ok {
		return s
	}
	return genericMitigation
}

// ActionSteps returns the ordered recommended actions. The slice is a copy.
func ActionSteps(issueType string) []string {
	steps, ok := actionSteps[issueType]
	if !ok {
		return []string{genericActionStep}
	}
	return append([]string(nil), steps...)
}

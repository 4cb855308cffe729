package documents

import (
	"time"
)

// DocumentID tipe untuk hasil analisa
type DocumentID string

// Status enum
type Status string

const (
	StatusAnalyzing Status = "analyzing"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Terminal reports whether the status is final (completed or error).
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Known issue categories. Type strings on Issue are free-form; these are
// the labels the stand-in engine draws from.
const (
	TypeConfirmationBias      = "Confirmation Bias"
	TypeAnchoringBias         = "Anchoring Bias"
	TypeAdHominemFallacy      = "Ad Hominem Fallacy"
	TypeFalseDichotomy        = "False Dichotomy"
	TypeAvailabilityHeuristic = "Availability Heuristic"
	TypeRepresentativeness    = "Representativeness"
)

// IssueTypes lists the six known categories in their canonical order.
var IssueTypes = []string{
	TypeConfirmationBias,
	TypeAnchoringBias,
	TypeAdHominemFallacy,
	TypeFalseDichotomy,
	TypeAvailabilityHeuristic,
	TypeRepresentativeness,
}

// PageRange is an inclusive [start, end] page span.
type PageRange [2]int

func (p PageRange) Start() int { return p[0] }
func (p PageRange) End() int   { return p[1] }

// Contains reports whether page falls inside the range.
func (p PageRange) Contains(page int) bool {
	return page >= p[0] && page <= p[1]
}

// Valid reports 1 <= start <= end.
func (p PageRange) Valid() bool {
	return p[0] >= 1 && p[0] <= p[1]
}

// Section is a page-bounded slice of a source document.
type Section struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	PageRange PageRange `json:"pageRange"`
	Enabled   bool      `json:"enabled"`
}

// SectionRef attributes occurrences of an issue to a section.
type SectionRef struct {
	SectionID  string `json:"sectionId"`
	Context    string `json:"context"`
	PageNumber int    `json:"pageNumber"`
}

// Issue is one detected category of issue within a document.
type Issue struct {
	Type     string       `json:"type"`
	Count    int          `json:"count"`
	Sections []SectionRef `json:"sections"`
}

// Aggregate Root: Result
type Result struct {
	ID         DocumentID `json:"id"`
	Name       string     `json:"name"`
	Sections   []Section  `json:"sections"`
	Issues     []Issue    `json:"issues"`
	Status     Status     `json:"status"`
	UploadedAt time.Time  `json:"uploadedAt"`
	Error      string     `json:"error,omitempty"`
}

// IssueTotal sums the occurrence counts of every issue in the document.
func (r *Result) IssueTotal() int {
	total := 0
	for _, is := range r.Issues {
		total += is.Count
	}
	return total
}

// Section returns the section with the given id, or nil.
func (r *Result) Section(id string) *Section {
	for i := range r.Sections {
		if r.Sections[i].ID == id {
			return &r.Sections[i]
		}
	}
	return nil
}

// IssueCount pairs an issue type with an accumulated count.
type IssueCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// CategoryCounts value object
type CategoryCounts struct {
	Fallacies  int `json:"fallacies"`
	Biases     int `json:"biases"`
	Heuristics int `json:"heuristics"`
}

// Stats is derived from the full result set and never stored.
type Stats struct {
	TotalDocuments  int            `json:"totalDocuments"`
	IssueTypes      CategoryCounts `json:"issueTypes"`
	TotalIssues     int            `json:"totalIssues"`
	MostCommonIssue *IssueCount    `json:"mostCommonIssue"`
}

// FileDescriptor is a candidate upload.
type FileDescriptor struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"sizeBytes"`
	Content   []byte `json:"-"`
}

// NewFileDescriptor builds a descriptor whose size is the content length.
func NewFileDescriptor(name string, content []byte) FileDescriptor {
	return FileDescriptor{Name: name, SizeBytes: int64(len(content)), Content: content}
}

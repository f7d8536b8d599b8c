package domain

// BookRecord is one catalog entry. Records are identified by their ordinal
// position in the catalog and never change for the lifetime of a process.
type BookRecord struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Themes  []string `json:"themes"`
}

// Metadata keys stored alongside every IndexEntry.
const (
	MetaTitle  = "title"
	MetaThemes = "themes"
)

// IndexEntry is the persisted form of a BookRecord inside a collection.
type IndexEntry struct {
	ID       string            // catalog ordinal, decimal
	Document string            // verbatim summary
	Metadata map[string]string // MetaTitle, MetaThemes
	Vector   []float32
}

// Neighbor is a raw nearest-neighbor hit returned by a collection query.
type Neighbor struct {
	ID       string
	Document string
	Metadata map[string]string
	Distance float64
}

// Candidate is a retrieval-stage result.
type Candidate struct {
	Title  string   `json:"title"`
	Score  float64  `json:"score"`
	Themes []string `json:"themes"`
}

// SelectionResult is the outcome of constrained selection. ChosenTitle is
// always one of the titles the selector was given, or empty when it was
// given none.
type SelectionResult struct {
	ChosenTitle string `json:"chosen_title"`
	Rationale   string `json:"rationale,omitempty"`
}

// ResolutionPath names the route a query took through the orchestrator.
type ResolutionPath string

const (
	PathNone       ResolutionPath = ""
	PathTitle      ResolutionPath = "title"
	PathFuzzyTitle ResolutionPath = "fuzzy-title"
	PathSemantic   ResolutionPath = "semantic"
)

// Direct reports whether the path resolved the query as a title lookup.
func (p ResolutionPath) Direct() bool {
	return p == PathTitle || p == PathFuzzyTitle
}

// Outcome is how a completed resolution ended.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeNoResults Outcome = "no-results"
	OutcomeNoSummary Outcome = "no-summary"
)

// Resolution is everything the orchestrator learned while answering a query.
type Resolution struct {
	Query        string         `json:"query"`
	Path         ResolutionPath `json:"path"`
	Outcome      Outcome        `json:"outcome"`
	Title        string         `json:"title,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	Rationale    string         `json:"rationale,omitempty"`
	Candidates   []Candidate    `json:"candidates,omitempty"`
	SelectionErr error          `json:"-"`
}

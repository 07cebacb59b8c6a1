package model

// Contract represents a single contract record with its extracted metadata
type Contract struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Parties  string     `json:"parties"`
	Start    string     `json:"start"`            // ISO 8601 date
	Expiry   string     `json:"expiry,omitempty"` // ISO 8601 date, may be absent
	Status   string     `json:"status"`
	Risk     string     `json:"risk"`
	Clauses  []Clause   `json:"clauses"`
	Insights []Insight  `json:"insights"`
	Evidence []Evidence `json:"evidence"`
}

// Clause is an extracted contract clause with a confidence score in [0,1]
type Clause struct {
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
}

// Insight is a risk observation attached to a contract
type Insight struct {
	Risk    string `json:"risk"`
	Message string `json:"message"`
}

// Evidence is a source snippet backing an insight, with relevance in [0,1]
type Evidence struct {
	Source    string  `json:"source"`
	Snippet   string  `json:"snippet"`
	Relevance float64 `json:"relevance"`
}

// Contract status constants
const (
	StatusActive     = "Active"
	StatusExpired    = "Expired"
	StatusRenewalDue = "Renewal Due"
	StatusDraft      = "Draft"
	StatusTerminated = "Terminated"
)

// Risk level constants
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// StatusUnknown is the neutral display category for values outside the
// closed status/risk enumerations.
const StatusUnknown = "Unknown"

// FilterAll disables filtering on a criteria dimension
const FilterAll = "all"

// Criteria is the active search/status/risk filter combination.
// Empty search and "all" (or empty) status/risk mean no constraint.
type Criteria struct {
	Search string `json:"search"`
	Status string `json:"status"`
	Risk   string `json:"risk"`
}

// NormalizeStatus maps a status value onto the closed enumeration,
// degrading unknown values to StatusUnknown
func NormalizeStatus(s string) string {
	switch s {
	case StatusActive, StatusExpired, StatusRenewalDue, StatusDraft, StatusTerminated:
		return s
	default:
		return StatusUnknown
	}
}

// NormalizeRisk maps a risk value onto the closed enumeration,
// degrading unknown values to StatusUnknown
func NormalizeRisk(r string) string {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return r
	default:
		return StatusUnknown
	}
}

// Clone returns a deep copy of the contract so callers can hand records
// out without exposing the store's internal slices
func (c *Contract) Clone() Contract {
	out := *c
	if c.Clauses != nil {
		out.Clauses = make([]Clause, len(c.Clauses))
		copy(out.Clauses, c.Clauses)
	}
	if c.Insights != nil {
		out.Insights = make([]Insight, len(c.Insights))
		copy(out.Insights, c.Insights)
	}
	if c.Evidence != nil {
		out.Evidence = make([]Evidence, len(c.Evidence))
		copy(out.Evidence, c.Evidence)
	}
	return out
}

package reconcile

import (
	"casebridge/internal/buc"
)

// Strategy is how new institutions are brought onto a case.
type Strategy string

const (
	// StrategyNoop means every candidate is already a participant.
	StrategyNoop Strategy = "noop"
	// StrategyDirect registers the institutions on the case directly.
	StrategyDirect Strategy = "direct"
	// StrategyMediated submits one mediating document per institution.
	StrategyMediated Strategy = "mediated"
)

// MediatedDocument is a mediating document that must be generated and
// submitted before Institution counts as added.
type MediatedDocument struct {
	Institution  buc.Institution  `json:"institution"`
	DocumentType buc.DocumentType `json:"documentType"`
}

// Plan is the outcome of reconciling a case's participants against a
// candidate list. It is a decision only; executing it is the caller's job.
type Plan struct {
	CaseID   string          `json:"caseId"`
	CaseType string          `json:"caseType"`
	Strategy Strategy        `json:"strategy"`
	Owner    buc.Institution `json:"caseOwner"`
	// NewInstitutions is the delta, in order of first appearance among the
	// candidates.
	NewInstitutions []buc.Institution `json:"newInstitutions"`
	// Documents is set for StrategyMediated only.
	Documents []MediatedDocument `json:"documents,omitempty"`
}

// IsNoop reports whether the plan requires no mutation.
func (p *Plan) IsNoop() bool {
	return p.Strategy == StrategyNoop
}

// InstitutionIDs returns the identifiers of the new institutions.
func (p *Plan) InstitutionIDs() []string {
	ids := make([]string, 0, len(p.NewInstitutions))
	for _, inst := range p.NewInstitutions {
		ids = append(ids, inst.ID)
	}
	return ids
}

// Package reconcile computes which institutions must be added to a case and
// how, enforcing that a case owned abroad cannot be extended with foreign
// institutions from here.
package reconcile

import (
	"casebridge/internal/buc"
	"casebridge/internal/buc/eligibility"
	"casebridge/internal/buc/metrics"
	dErrors "casebridge/pkg/domain-errors"
)

// Engine plans participant reconciliation. It is pure and safe for
// concurrent use.
type Engine struct {
	catalogue *eligibility.Catalogue
	metrics   *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an Engine. The catalogue supplies the mediating
// document type.
func NewEngine(catalogue *eligibility.Catalogue, opts ...Option) *Engine {
	e := &Engine{catalogue: catalogue}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan reconciles the case's participants with candidates.
//
// Errors:
//   - CodeValidation when the case has no participants and no candidates
//   - CodeValidation when the owner is foreign and a new institution is too
func (e *Engine) Plan(c buc.Case, candidates []buc.Institution) (*Plan, error) {
	plan, err := e.plan(c, candidates)
	if err != nil {
		e.metrics.IncReconciliation("rejected")
		return nil, err
	}
	e.metrics.IncReconciliation(string(plan.Strategy))
	return plan, nil
}

func (e *Engine) plan(c buc.Case, candidates []buc.Institution) (*Plan, error) {
	if len(c.Participants) == 0 && len(candidates) == 0 {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"case %s has no participants and no candidate institutions to reconcile", c.ID)
	}

	owner, _ := c.Owner()
	plan := &Plan{
		CaseID:          c.ID,
		CaseType:        c.ProcessDefinitionName,
		Strategy:        StrategyNoop,
		Owner:           owner,
		NewInstitutions: delta(c.Participants, candidates),
	}
	if len(plan.NewInstitutions) == 0 {
		return plan, nil
	}

	if !owner.IsLocal() {
		for _, inst := range plan.NewInstitutions {
			if !inst.IsLocal() {
				return nil, dErrors.Newf(dErrors.CodeValidation,
					"case %s is owned by %s; institution %s cannot be added from %s",
					c.ID, owner.Country, inst.ID, buc.LocalCountry)
			}
		}
	}

	mediating := e.catalogue.MediatingDocumentType()
	if !c.HasDocumentOfType(mediating) {
		plan.Strategy = StrategyDirect
		return plan, nil
	}

	plan.Strategy = StrategyMediated
	plan.Documents = make([]MediatedDocument, 0, len(plan.NewInstitutions))
	for _, inst := range plan.NewInstitutions {
		plan.Documents = append(plan.Documents, MediatedDocument{Institution: inst, DocumentType: mediating})
	}
	return plan, nil
}

// delta returns candidates that are not participants, compared by
// institution key, without duplicates and in candidate order.
func delta(current []buc.Participant, candidates []buc.Institution) []buc.Institution {
	seen := make(map[buc.InstitutionKey]struct{}, len(current)+len(candidates))
	for _, p := range current {
		seen[p.Institution.Key()] = struct{}{}
	}
	out := make([]buc.Institution, 0, len(candidates))
	for _, inst := range candidates {
		k := inst.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, inst)
	}
	return out
}

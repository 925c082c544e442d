// Package eligibility decides which document types may still be created on
// a case, from the catalogue and the documents and actions already present.
package eligibility

import (
	"sort"

	"casebridge/internal/buc"
	"casebridge/internal/buc/metrics"
	dErrors "casebridge/pkg/domain-errors"
)

// Engine evaluates document eligibility. It holds no per-case state and is
// safe for concurrent use.
type Engine struct {
	catalogue *Catalogue
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

// NewEngine creates an Engine over catalogue.
func NewEngine(catalogue *Catalogue, opts ...Option) *Engine {
	e := &Engine{catalogue: catalogue}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalogue returns the catalogue the engine evaluates against.
func (e *Engine) Catalogue() *Catalogue {
	return e.catalogue
}

// Eligible returns the document types that may still be created on c,
// sorted by name. Case types missing from the catalogue have none.
func (e *Engine) Eligible(c buc.Case) []buc.DocumentType {
	allowed, ok := e.catalogue.Documents(c.ProcessDefinitionName)
	if !ok {
		return []buc.DocumentType{}
	}

	creatable := createActions(c.Actions)
	eligible := make([]buc.DocumentType, 0, len(allowed))
	for _, t := range allowed {
		if e.disqualified(c, t) {
			continue
		}
		if creatable != nil {
			if _, ok := creatable[t]; !ok {
				continue
			}
		}
		eligible = append(eligible, t)
	}

	sort.Slice(eligible, func(i, j int) bool { return eligible[i] < eligible[j] })
	return eligible
}

// disqualified applies the single-instance rule, or the round rule when t
// belongs to an exchange round.
func (e *Engine) disqualified(c buc.Case, t buc.DocumentType) bool {
	round := e.catalogue.Round(c.ProcessDefinitionName, t)
	if round == nil {
		for _, d := range c.Documents {
			if d.Type == t && d.Status.IsLive() {
				return true
			}
		}
		return false
	}

	for _, d := range c.Documents {
		if d.Type == t && d.Status == buc.StatusSent {
			return true
		}
		if d.Status.IsOpenDraft() && contains(round, d.Type) {
			return true
		}
	}
	return false
}

// CheckCreatable returns nil when a document of type t may be created on c
// with the given parent. parentID is empty for documents that are not
// replies.
func (e *Engine) CheckCreatable(c buc.Case, t buc.DocumentType, parentID string) error {
	err := e.checkCreatable(c, t, parentID)
	e.metrics.IncCreatabilityCheck(err == nil)
	return err
}

func (e *Engine) checkCreatable(c buc.Case, t buc.DocumentType, parentID string) error {
	if !contains(e.Eligible(c), t) {
		return dErrors.Newf(dErrors.CodeValidation, "document type %s cannot be created on case %s", t, c.ID)
	}
	if parentID == "" {
		return nil
	}

	parent, ok := c.Document(parentID)
	if !ok {
		return dErrors.Newf(dErrors.CodeNotFound, "parent document %s not found on case %s", parentID, c.ID)
	}
	if parent.Status == buc.StatusCancelled || answered(c, parentID) {
		return dErrors.Newf(dErrors.CodeValidation,
			"document type %s cannot be created on case %s: parent document %s is already answered", t, c.ID, parentID)
	}
	return nil
}

// answered reports whether a live document already replies to parentID.
func answered(c buc.Case, parentID string) bool {
	for _, d := range c.Documents {
		if d.ParentDocumentID == parentID && d.Status.IsLive() {
			return true
		}
	}
	return false
}

// createActions returns the document types named by Create actions, or nil
// when the case carries none.
func createActions(actions []buc.Action) map[buc.DocumentType]struct{} {
	var out map[buc.DocumentType]struct{}
	for _, a := range actions {
		if a.Name != buc.ActionCreate || a.DocumentType == "" {
			continue
		}
		if out == nil {
			out = make(map[buc.DocumentType]struct{})
		}
		out[a.DocumentType] = struct{}{}
	}
	return out
}

func contains(types []buc.DocumentType, t buc.DocumentType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

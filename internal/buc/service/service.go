// Package service orchestrates the case core: it fetches cases through the
// ports, runs the pure view, eligibility and reconciliation engines, and
// executes the resulting decisions against the case-exchange system.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"casebridge/internal/buc"
	"casebridge/internal/buc/eligibility"
	"casebridge/internal/buc/ports"
	"casebridge/internal/buc/reconcile"
	"casebridge/internal/buc/view"
	"casebridge/internal/platform/tracing"
	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/requestcontext"
)

// Audit actions.
const (
	ActionDocumentCreated   = "document_created"
	ActionInstitutionsAdded = "institutions_added"
)

// Service is the case core's application surface.
type Service struct {
	cases       ports.CaseFetcher
	documents   ports.DocumentFetcher
	creator     ports.DocumentCreator
	adder       ports.ParticipantAdder
	locker      ports.CaseLocker
	prefiller   ports.Prefiller
	audit       ports.AuditPublisher
	views       *view.BatchBuilder
	eligibility *eligibility.Engine
	reconcile   *reconcile.Engine
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPrefiller sets the document content generator used by mediated plans.
func WithPrefiller(p ports.Prefiller) Option {
	return func(s *Service) {
		s.prefiller = p
	}
}

// WithAuditPublisher sets the audit publisher.
func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) {
		s.audit = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Deps groups the collaborators a Service cannot run without.
type Deps struct {
	Cases       ports.CaseFetcher
	Documents   ports.DocumentFetcher
	Creator     ports.DocumentCreator
	Adder       ports.ParticipantAdder
	Locker      ports.CaseLocker
	Views       *view.BatchBuilder
	Eligibility *eligibility.Engine
	Reconcile   *reconcile.Engine
}

func New(deps Deps, opts ...Option) (*Service, error) {
	switch {
	case deps.Cases == nil:
		return nil, fmt.Errorf("case fetcher is required")
	case deps.Documents == nil:
		return nil, fmt.Errorf("document fetcher is required")
	case deps.Creator == nil:
		return nil, fmt.Errorf("document creator is required")
	case deps.Adder == nil:
		return nil, fmt.Errorf("participant adder is required")
	case deps.Locker == nil:
		return nil, fmt.Errorf("case locker is required")
	case deps.Views == nil:
		return nil, fmt.Errorf("view batch builder is required")
	case deps.Eligibility == nil:
		return nil, fmt.Errorf("eligibility engine is required")
	case deps.Reconcile == nil:
		return nil, fmt.Errorf("reconciliation engine is required")
	}

	svc := &Service{
		cases:       deps.Cases,
		documents:   deps.Documents,
		creator:     deps.Creator,
		adder:       deps.Adder,
		locker:      deps.Locker,
		views:       deps.Views,
		eligibility: deps.Eligibility,
		reconcile:   deps.Reconcile,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// View builds the view of one case as seen by the caller.
func (s *Service) View(ctx context.Context, caseID string) view.Outcome {
	return s.views.One(ctx, caseID)
}

// Views builds the views of many cases, most recently started first.
func (s *Service) Views(ctx context.Context, caseIDs []string) []view.Outcome {
	return s.views.Build(ctx, caseIDs)
}

// EligibleDocumentTypes lists the document types that may be created on the
// case right now.
func (s *Service) EligibleDocumentTypes(ctx context.Context, caseID string) ([]buc.DocumentType, error) {
	c, err := s.fetch(ctx, caseID, ports.AsCaller)
	if err != nil {
		return nil, err
	}
	return s.eligibility.Eligible(c), nil
}

// CheckCreatable returns nil when a document of type t, optionally answering
// parentID, may be created on the case.
func (s *Service) CheckCreatable(ctx context.Context, caseID string, t buc.DocumentType, parentID string) error {
	c, err := s.fetch(ctx, caseID, ports.AsCaller)
	if err != nil {
		return err
	}
	return s.eligibility.CheckCreatable(c, t, parentID)
}

// CreateDocument creates a document after checking it is creatable.
func (s *Service) CreateDocument(ctx context.Context, caseID string, doc ports.NewDocument) (ports.CreatedDocument, error) {
	ctx, span := tracing.StartSpan(ctx, "case.document.create",
		trace.WithAttributes(attribute.String("case.id", caseID), attribute.String("document.type", doc.Type.String())))
	defer span.End()

	if err := s.CheckCreatable(ctx, caseID, doc.Type, doc.ParentDocumentID); err != nil {
		return ports.CreatedDocument{}, err
	}

	created, err := s.creator.CreateDocument(ctx, caseID, doc)
	if err != nil {
		return ports.CreatedDocument{}, err
	}

	s.logger.InfoContext(ctx, "document created",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", caseID,
		"document_id", created.DocumentID,
		"document_type", doc.Type,
	)
	s.publish(ctx, ports.AuditEvent{
		Action:      ActionDocumentCreated,
		CaseID:      caseID,
		DocumentIDs: []string{created.DocumentID},
	})
	return created, nil
}

// Document returns the raw content of one document.
func (s *Service) Document(ctx context.Context, caseID, documentID string) (json.RawMessage, error) {
	content, err := s.documents.FetchDocument(ctx, caseID, documentID)
	if err != nil {
		return nil, restrict(err)
	}
	return content, nil
}

// AddInstitutions reconciles the case's participants against candidates and
// executes the resulting plan. Concurrent additions to the same case are
// serialized by the case lock; a held lock fails with CodeConflict.
func (s *Service) AddInstitutions(ctx context.Context, caseID string, candidates []buc.Institution) (*reconcile.Plan, error) {
	ctx, span := tracing.StartSpan(ctx, "case.institutions.add", trace.WithAttributes(attribute.String("case.id", caseID)))
	defer span.End()

	release, err := s.locker.Acquire(ctx, caseID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "failed to release case lock",
				"request_id", requestcontext.RequestID(ctx),
				"case_id", caseID,
				"error", err,
			)
		}
	}()

	c, err := s.fetch(ctx, caseID, ports.AsSystem)
	if err != nil {
		return nil, err
	}

	plan, err := s.reconcile.Plan(c, candidates)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("reconcile.strategy", string(plan.Strategy)))

	var documentIDs []string
	switch plan.Strategy {
	case reconcile.StrategyNoop:
		return plan, nil
	case reconcile.StrategyDirect:
		if err := s.adder.AddParticipants(ctx, caseID, plan.InstitutionIDs()); err != nil {
			return nil, err
		}
	case reconcile.StrategyMediated:
		documentIDs, err = s.mediate(ctx, plan)
		if err != nil {
			s.auditPartial(ctx, plan, documentIDs, err)
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "institutions added",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", caseID,
		"strategy", plan.Strategy,
		"institutions", plan.InstitutionIDs(),
	)
	s.publish(ctx, ports.AuditEvent{
		Action:       ActionInstitutionsAdded,
		CaseID:       caseID,
		Strategy:     string(plan.Strategy),
		Institutions: plan.InstitutionIDs(),
		DocumentIDs:  documentIDs,
	})
	return plan, nil
}

// mediate generates and submits one mediating document per new institution,
// in plan order. It stops at the first failure; documents already submitted
// stay on the case.
func (s *Service) mediate(ctx context.Context, plan *reconcile.Plan) ([]string, error) {
	if s.prefiller == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "document prefill is not configured")
	}

	ids := make([]string, 0, len(plan.Documents))
	for _, md := range plan.Documents {
		payload, err := s.prefiller.Prefill(ctx, ports.PrefillRequest{
			CaseID:       plan.CaseID,
			CaseType:     plan.CaseType,
			DocumentType: md.DocumentType,
			Institutions: []buc.Institution{md.Institution},
		})
		if err != nil {
			return ids, err
		}
		created, err := s.creator.CreateDocument(ctx, plan.CaseID, ports.NewDocument{
			Type:    md.DocumentType,
			Payload: payload,
		})
		if err != nil {
			return ids, err
		}
		ids = append(ids, created.DocumentID)
	}
	return ids, nil
}

// auditPartial records the mediating documents a failed run left on the case.
func (s *Service) auditPartial(ctx context.Context, plan *reconcile.Plan, documentIDs []string, cause error) {
	if len(documentIDs) == 0 {
		return
	}
	reached := make([]string, 0, len(documentIDs))
	for _, md := range plan.Documents[:len(documentIDs)] {
		reached = append(reached, md.Institution.ID)
	}
	s.logger.WarnContext(ctx, "mediated addition stopped partway",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", plan.CaseID,
		"institutions", reached,
		"document_ids", documentIDs,
		"error", cause,
	)
	s.publish(ctx, ports.AuditEvent{
		Action:       ActionInstitutionsAdded,
		CaseID:       plan.CaseID,
		Strategy:     string(plan.Strategy),
		Institutions: reached,
		DocumentIDs:  documentIDs,
		Failure:      string(dErrors.CodeOf(cause)),
	})
}

func (s *Service) fetch(ctx context.Context, caseID string, as ports.Identity) (buc.Case, error) {
	c, err := s.cases.FetchCase(ctx, caseID, as)
	if err != nil {
		return buc.Case{}, restrict(err)
	}
	return c, nil
}

// publish emits an audit event. Failures are logged and never undo the
// mutation they describe.
func (s *Service) publish(ctx context.Context, event ports.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.Caller = requestcontext.Caller(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.audit.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish audit event",
			"request_id", event.RequestID,
			"action", event.Action,
			"case_id", event.CaseID,
			"error", err,
		)
	}
}

// restrict replaces upstream forbidden messages, which may reveal case
// content, with a fixed one.
func restrict(err error) error {
	if dErrors.HasCode(err, dErrors.CodeForbidden) {
		return dErrors.Wrap(err, dErrors.CodeForbidden, view.RestrictedMessage)
	}
	return err
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"casebridge/internal/buc"
	"casebridge/internal/buc/datetime"
	"casebridge/internal/buc/eligibility"
	"casebridge/internal/buc/ports"
	"casebridge/internal/buc/ports/mocks"
	"casebridge/internal/buc/reconcile"
	"casebridge/internal/buc/view"
	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/platform/sentinel"
	"casebridge/pkg/requestcontext"
)

// ServiceSuite covers orchestration: which port is called with which
// identity, in which order, and what happens when a step fails. The engines
// are real; only the ports are mocked.
type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	cases     *mocks.MockCaseFetcher
	documents *mocks.MockDocumentFetcher
	creator   *mocks.MockDocumentCreator
	adder     *mocks.MockParticipantAdder
	locker    *mocks.MockCaseLocker
	prefiller *mocks.MockPrefiller
	audit     *mocks.MockAuditPublisher
	service   *Service
	ctx       context.Context
	released  int
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.cases = mocks.NewMockCaseFetcher(s.ctrl)
	s.documents = mocks.NewMockDocumentFetcher(s.ctrl)
	s.creator = mocks.NewMockDocumentCreator(s.ctrl)
	s.adder = mocks.NewMockParticipantAdder(s.ctrl)
	s.locker = mocks.NewMockCaseLocker(s.ctrl)
	s.prefiller = mocks.NewMockPrefiller(s.ctrl)
	s.audit = mocks.NewMockAuditPublisher(s.ctrl)
	s.released = 0

	s.service = s.newService(WithPrefiller(s.prefiller), WithAuditPublisher(s.audit))

	ctx := requestcontext.WithCaller(context.Background(), "Z990001")
	ctx = requestcontext.WithRequestID(ctx, "req-1")
	s.ctx = requestcontext.WithTime(ctx, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) newService(opts ...Option) *Service {
	catalogue, err := eligibility.LoadCatalogue()
	s.Require().NoError(err)
	builder := view.NewBuilder(datetime.New(time.UTC), nil)

	svc, err := New(Deps{
		Cases:       s.cases,
		Documents:   s.documents,
		Creator:     s.creator,
		Adder:       s.adder,
		Locker:      s.locker,
		Views:       view.NewBatchBuilder(s.cases, builder, view.WithWorkers(2)),
		Eligibility: eligibility.NewEngine(catalogue),
		Reconcile:   reconcile.NewEngine(catalogue),
	}, opts...)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) expectLock(caseID string) {
	s.locker.EXPECT().Acquire(gomock.Any(), caseID).Return(func(context.Context) error {
		s.released++
		return nil
	}, nil)
}

var (
	norway  = buc.Institution{Country: "NO", ID: "NO:NAVAT07", Name: "NAV"}
	sweden  = buc.Institution{Country: "SE", ID: "SE:FK", Name: "Försäkringskassan"}
	norway2 = buc.Institution{Country: "NO", ID: "NO:NAVAT08"}
	denmark = buc.Institution{Country: "DK", ID: "DK:ATP"}
)

func ownedBy(owner buc.Institution, docs ...buc.Document) buc.Case {
	return buc.Case{
		ID:                    "case-1",
		ProcessDefinitionName: "P_BUC_01",
		Participants:          []buc.Participant{{Role: buc.RoleCaseOwner, Institution: owner}},
		Documents:             docs,
	}
}

// -----------------------------------------------------------------------------
// Construction
// -----------------------------------------------------------------------------

func (s *ServiceSuite) TestNew_RequiresCollaborators() {
	_, err := New(Deps{})
	s.Require().Error(err)
	s.Contains(err.Error(), "case fetcher is required")
}

// -----------------------------------------------------------------------------
// Views and eligibility
// -----------------------------------------------------------------------------

func (s *ServiceSuite) TestView() {
	s.Run("fetches with the caller identity", func() {
		s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsCaller).Return(ownedBy(norway), nil)

		out := s.service.View(s.ctx, "case-1")

		v, ok := out.View()
		s.Require().True(ok)
		s.Equal("P_BUC_01", v.Type)
	})

	s.Run("not found becomes a failed outcome", func() {
		s.cases.EXPECT().FetchCase(gomock.Any(), "gone", ports.AsCaller).
			Return(buc.Case{}, dErrors.New(dErrors.CodeNotFound, "no such case"))

		out := s.service.View(s.ctx, "gone")

		s.Equal("gone", out.CaseID())
		s.Equal("case not found", out.Message())
	})
}

func (s *ServiceSuite) TestViews_KeepsEveryCase() {
	s.cases.EXPECT().FetchCase(gomock.Any(), "a", ports.AsCaller).Return(buc.Case{ID: "a", ProcessDefinitionName: "P_BUC_01"}, nil)
	s.cases.EXPECT().FetchCase(gomock.Any(), "b", ports.AsCaller).Return(buc.Case{}, errors.New("boom"))

	out := s.service.Views(s.ctx, []string{"a", "b"})

	s.Len(out, 2)
}

func (s *ServiceSuite) TestEligibleDocumentTypes() {
	s.Run("empty case offers its catalogue documents", func() {
		s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsCaller).Return(ownedBy(norway), nil)

		types, err := s.service.EligibleDocumentTypes(s.ctx, "case-1")

		s.Require().NoError(err)
		s.Equal([]buc.DocumentType{buc.P2000}, types)
	})

	// Justification: upstream forbidden messages can name the case subject,
	// so the caller only ever sees the fixed message.
	s.Run("forbidden fetch is restricted", func() {
		s.cases.EXPECT().FetchCase(gomock.Any(), "secret", ports.AsCaller).
			Return(buc.Case{}, dErrors.New(dErrors.CodeForbidden, "case belongs to a protected person"))

		_, err := s.service.EligibleDocumentTypes(s.ctx, "secret")

		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(view.RestrictedMessage, dErrors.Message(err))
	})
}

// -----------------------------------------------------------------------------
// Documents
// -----------------------------------------------------------------------------

func (s *ServiceSuite) TestCreateDocument() {
	doc := ports.NewDocument{Type: buc.P2000, Payload: json.RawMessage(`{"sed":"P2000"}`)}

	s.Run("creates and audits an eligible document", func() {
		s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsCaller).Return(ownedBy(norway), nil)
		s.creator.EXPECT().CreateDocument(gomock.Any(), "case-1", doc).
			Return(ports.CreatedDocument{CaseID: "case-1", DocumentID: "doc-9"}, nil)
		s.audit.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e ports.AuditEvent) error {
			s.Equal(ActionDocumentCreated, e.Action)
			s.Equal("Z990001", e.Caller)
			s.Equal("req-1", e.RequestID)
			s.Equal([]string{"doc-9"}, e.DocumentIDs)
			return nil
		})

		created, err := s.service.CreateDocument(s.ctx, "case-1", doc)

		s.Require().NoError(err)
		s.Equal("doc-9", created.DocumentID)
	})

	s.Run("ineligible document never reaches the creator", func() {
		sent := buc.Document{ID: "d1", Type: buc.P2000, Status: buc.StatusSent}
		s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsCaller).Return(ownedBy(norway, sent), nil)

		_, err := s.service.CreateDocument(s.ctx, "case-1", doc)

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("audit failure does not fail the creation", func() {
		s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsCaller).Return(ownedBy(norway), nil)
		s.creator.EXPECT().CreateDocument(gomock.Any(), "case-1", doc).
			Return(ports.CreatedDocument{CaseID: "case-1", DocumentID: "doc-10"}, nil)
		s.audit.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, err := s.service.CreateDocument(s.ctx, "case-1", doc)

		s.NoError(err)
	})
}

func (s *ServiceSuite) TestDocument() {
	s.Run("returns raw content", func() {
		s.documents.EXPECT().FetchDocument(gomock.Any(), "case-1", "d1").Return(json.RawMessage(`{"a":1}`), nil)

		content, err := s.service.Document(s.ctx, "case-1", "d1")

		s.Require().NoError(err)
		s.JSONEq(`{"a":1}`, string(content))
	})

	s.Run("forbidden is restricted", func() {
		s.documents.EXPECT().FetchDocument(gomock.Any(), "case-1", "d2").
			Return(nil, dErrors.New(dErrors.CodeForbidden, "details"))

		_, err := s.service.Document(s.ctx, "case-1", "d2")

		s.Equal(view.RestrictedMessage, dErrors.Message(err))
	})
}

// -----------------------------------------------------------------------------
// Institutions
// -----------------------------------------------------------------------------

func (s *ServiceSuite) TestAddInstitutions_Direct() {
	s.expectLock("case-1")
	s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsSystem).Return(ownedBy(norway), nil)
	s.adder.EXPECT().AddParticipants(gomock.Any(), "case-1", []string{"SE:FK", "DK:ATP"}).Return(nil)
	s.audit.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e ports.AuditEvent) error {
		s.Equal(ActionInstitutionsAdded, e.Action)
		s.Equal("direct", e.Strategy)
		s.Equal([]string{"SE:FK", "DK:ATP"}, e.Institutions)
		return nil
	})

	plan, err := s.service.AddInstitutions(s.ctx, "case-1", []buc.Institution{sweden, norway, denmark, sweden})

	s.Require().NoError(err)
	s.Equal(reconcile.StrategyDirect, plan.Strategy)
	s.Equal(1, s.released)
}

func (s *ServiceSuite) TestAddInstitutions_Mediated() {
	x005 := buc.Document{ID: "x1", Type: buc.X005, Status: buc.StatusSent}
	s.expectLock("case-1")
	s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsSystem).Return(ownedBy(norway, x005), nil)

	gomock.InOrder(
		s.prefiller.EXPECT().Prefill(gomock.Any(), ports.PrefillRequest{
			CaseID: "case-1", CaseType: "P_BUC_01", DocumentType: buc.X005, Institutions: []buc.Institution{sweden},
		}).Return(json.RawMessage(`{"x":"se"}`), nil),
		s.creator.EXPECT().CreateDocument(gomock.Any(), "case-1", ports.NewDocument{Type: buc.X005, Payload: json.RawMessage(`{"x":"se"}`)}).
			Return(ports.CreatedDocument{CaseID: "case-1", DocumentID: "new-1"}, nil),
		s.prefiller.EXPECT().Prefill(gomock.Any(), ports.PrefillRequest{
			CaseID: "case-1", CaseType: "P_BUC_01", DocumentType: buc.X005, Institutions: []buc.Institution{denmark},
		}).Return(json.RawMessage(`{"x":"dk"}`), nil),
		s.creator.EXPECT().CreateDocument(gomock.Any(), "case-1", ports.NewDocument{Type: buc.X005, Payload: json.RawMessage(`{"x":"dk"}`)}).
			Return(ports.CreatedDocument{CaseID: "case-1", DocumentID: "new-2"}, nil),
	)
	s.audit.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e ports.AuditEvent) error {
		s.Equal("mediated", e.Strategy)
		s.Equal([]string{"new-1", "new-2"}, e.DocumentIDs)
		return nil
	})

	plan, err := s.service.AddInstitutions(s.ctx, "case-1", []buc.Institution{sweden, denmark})

	s.Require().NoError(err)
	s.Equal(reconcile.StrategyMediated, plan.Strategy)
	s.Len(plan.Documents, 2)
}

// Justification: documents created before a failing step stay on the case,
// so the run is audited with what it reached and why it stopped.
func (s *ServiceSuite) TestAddInstitutions_MediatedStopsPartway() {
	x005 := buc.Document{ID: "x1", Type: buc.X005, Status: buc.StatusSent}
	s.expectLock("case-1")
	s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsSystem).Return(ownedBy(norway, x005), nil)

	gomock.InOrder(
		s.prefiller.EXPECT().Prefill(gomock.Any(), gomock.Any()).Return(json.RawMessage(`{"x":"se"}`), nil),
		s.creator.EXPECT().CreateDocument(gomock.Any(), "case-1", gomock.Any()).
			Return(ports.CreatedDocument{CaseID: "case-1", DocumentID: "new-1"}, nil),
		s.prefiller.EXPECT().Prefill(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "prefill timed out")),
	)
	s.audit.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e ports.AuditEvent) error {
		s.Equal(ActionInstitutionsAdded, e.Action)
		s.Equal("mediated", e.Strategy)
		s.Equal([]string{sweden.ID}, e.Institutions)
		s.Equal([]string{"new-1"}, e.DocumentIDs)
		s.Equal(string(dErrors.CodeUnavailable), e.Failure)
		return nil
	})

	_, err := s.service.AddInstitutions(s.ctx, "case-1", []buc.Institution{sweden, denmark})

	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(1, s.released)
}

func (s *ServiceSuite) TestAddInstitutions_MediatedWithoutPrefiller() {
	svc := s.newService()
	x005 := buc.Document{ID: "x1", Type: buc.X005, Status: buc.StatusReceived}
	s.expectLock("case-1")
	s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsSystem).Return(ownedBy(norway, x005), nil)

	_, err := svc.AddInstitutions(s.ctx, "case-1", []buc.Institution{sweden})

	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(1, s.released)
}

func (s *ServiceSuite) TestAddInstitutions_Noop() {
	s.expectLock("case-1")
	s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsSystem).Return(ownedBy(norway), nil)

	plan, err := s.service.AddInstitutions(s.ctx, "case-1", []buc.Institution{{Country: "no", ID: " NO:NAVAT07 "}})

	s.Require().NoError(err)
	s.True(plan.IsNoop())
	s.Equal(1, s.released)
}

// Justification: a foreign-owned case may only gain institutions from the
// local country; the engine rejects the plan before any mutation.
func (s *ServiceSuite) TestAddInstitutions_ForeignOwner() {
	s.expectLock("case-1")
	s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsSystem).Return(ownedBy(sweden), nil)

	_, err := s.service.AddInstitutions(s.ctx, "case-1", []buc.Institution{norway2, denmark})

	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(dErrors.Message(err), "case-1")
	s.NotEqual(view.RestrictedMessage, dErrors.Message(err))
	s.Equal(1, s.released)
}

func (s *ServiceSuite) TestAddInstitutions_LockHeld() {
	s.locker.EXPECT().Acquire(gomock.Any(), "case-1").
		Return(nil, dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, "case is being modified"))

	_, err := s.service.AddInstitutions(s.ctx, "case-1", []buc.Institution{sweden})

	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *ServiceSuite) TestAddInstitutions_ParticipantFailureReleasesLock() {
	s.expectLock("case-1")
	s.cases.EXPECT().FetchCase(gomock.Any(), "case-1", ports.AsSystem).Return(ownedBy(norway), nil)
	s.adder.EXPECT().AddParticipants(gomock.Any(), "case-1", []string{"SE:FK"}).
		Return(dErrors.New(dErrors.CodeUnavailable, "case API unavailable"))

	_, err := s.service.AddInstitutions(s.ctx, "case-1", []buc.Institution{sweden})

	require.Error(s.T(), err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(1, s.released)
}

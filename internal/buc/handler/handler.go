// Package handler exposes the case core over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"casebridge/internal/buc"
	"casebridge/internal/buc/ports"
	"casebridge/internal/buc/reconcile"
	"casebridge/internal/buc/view"
	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/platform/httputil"
	"casebridge/pkg/requestcontext"
)

// Service defines the case operations the handler exposes.
type Service interface {
	View(ctx context.Context, caseID string) view.Outcome
	Views(ctx context.Context, caseIDs []string) []view.Outcome
	EligibleDocumentTypes(ctx context.Context, caseID string) ([]buc.DocumentType, error)
	CheckCreatable(ctx context.Context, caseID string, t buc.DocumentType, parentID string) error
	CreateDocument(ctx context.Context, caseID string, doc ports.NewDocument) (ports.CreatedDocument, error)
	Document(ctx context.Context, caseID, documentID string) (json.RawMessage, error)
	AddInstitutions(ctx context.Context, caseID string, candidates []buc.Institution) (*reconcile.Plan, error)
}

// Handler wires case endpoints to the case service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts case endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cases/views", h.HandleViews)
	r.Route("/cases/{caseID}", func(r chi.Router) {
		r.Get("/", h.HandleView)
		r.Get("/eligible-documents", h.HandleEligibleDocuments)
		r.Post("/documents/check", h.HandleCheckDocument)
		r.Post("/documents", h.HandleCreateDocument)
		r.Get("/documents/{documentID}", h.HandleDocument)
		r.Post("/institutions", h.HandleAddInstitutions)
	})
}

// HandleView handles GET /cases/{caseID}.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := pathParam(w, r, "caseID")
	if !ok {
		return
	}

	out := h.service.View(ctx, caseID)
	if err := out.Err(); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeOf(err), out.Message()))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleViews handles POST /cases/views. Per-case failures are reported in
// the list; the response itself always succeeds.
func (h *Handler) HandleViews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ViewsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcomes := h.service.Views(ctx, req.CaseIDs)

	h.logger.InfoContext(ctx, "case views built",
		"request_id", requestID,
		"cases", len(outcomes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, ViewsResponse{Cases: outcomes})
}

// HandleEligibleDocuments handles GET /cases/{caseID}/eligible-documents.
func (h *Handler) HandleEligibleDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := pathParam(w, r, "caseID")
	if !ok {
		return
	}

	types, err := h.service.EligibleDocumentTypes(ctx, caseID)
	if err != nil {
		h.fail(ctx, w, "eligible documents failed", caseID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EligibleDocumentsResponse{CaseID: caseID, DocumentTypes: nonNil(types)})
}

// HandleCheckDocument handles POST /cases/{caseID}/documents/check.
func (h *Handler) HandleCheckDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caseID, ok := pathParam(w, r, "caseID")
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CheckDocumentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.CheckCreatable(ctx, caseID, req.ParsedType(), req.ParentDocumentID); err != nil {
		h.fail(ctx, w, "creatability check failed", caseID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CheckDocumentResponse{
		CaseID:       caseID,
		DocumentType: req.ParsedType(),
		Creatable:    true,
	})
}

// HandleCreateDocument handles POST /cases/{caseID}/documents.
func (h *Handler) HandleCreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caseID, ok := pathParam(w, r, "caseID")
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateDocumentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.CreateDocument(ctx, caseID, ports.NewDocument{
		Type:             req.ParsedType(),
		ParentDocumentID: req.ParentDocumentID,
		Payload:          req.Document,
	})
	if err != nil {
		h.fail(ctx, w, "document creation failed", caseID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// HandleDocument handles GET /cases/{caseID}/documents/{documentID}. The
// content is returned as received from the case-exchange system.
func (h *Handler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := pathParam(w, r, "caseID")
	if !ok {
		return
	}
	documentID, ok := pathParam(w, r, "documentID")
	if !ok {
		return
	}

	content, err := h.service.Document(ctx, caseID, documentID)
	if err != nil {
		h.fail(ctx, w, "document fetch failed", caseID, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// HandleAddInstitutions handles POST /cases/{caseID}/institutions.
func (h *Handler) HandleAddInstitutions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caseID, ok := pathParam(w, r, "caseID")
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[AddInstitutionsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan, err := h.service.AddInstitutions(ctx, caseID, req.Candidates())
	if err != nil {
		h.fail(ctx, w, "adding institutions failed", caseID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPlan(plan))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg, caseID string, err error) {
	level := slog.LevelInfo
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"case_id", caseID,
		"code", dErrors.CodeOf(err),
		"error", err,
	)
	httputil.WriteError(w, err)
}

func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "%s is required", name))
		return "", false
	}
	return v, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

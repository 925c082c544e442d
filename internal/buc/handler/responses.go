package handler

import (
	"casebridge/internal/buc"
	"casebridge/internal/buc/reconcile"
	"casebridge/internal/buc/view"
)

// ViewsResponse is the HTTP response for POST /cases/views.
type ViewsResponse struct {
	Cases []view.Outcome `json:"cases"`
}

// EligibleDocumentsResponse is the HTTP response for
// GET /cases/{caseID}/eligible-documents.
type EligibleDocumentsResponse struct {
	CaseID        string             `json:"caseId"`
	DocumentTypes []buc.DocumentType `json:"documentTypes"`
}

// CheckDocumentResponse is the HTTP response for a successful
// POST /cases/{caseID}/documents/check.
type CheckDocumentResponse struct {
	CaseID       string           `json:"caseId"`
	DocumentType buc.DocumentType `json:"documentType"`
	Creatable    bool             `json:"creatable"`
}

// PlanResponse is the HTTP response for POST /cases/{caseID}/institutions.
type PlanResponse struct {
	CaseID          string                       `json:"caseId"`
	CaseType        string                       `json:"caseType"`
	Strategy        reconcile.Strategy           `json:"strategy"`
	CaseOwner       buc.Institution              `json:"caseOwner"`
	NewInstitutions []buc.Institution            `json:"newInstitutions"`
	Documents       []reconcile.MediatedDocument `json:"documents,omitempty"`
}

// FromPlan converts an executed plan to an HTTP response.
func FromPlan(p *reconcile.Plan) *PlanResponse {
	return &PlanResponse{
		CaseID:          p.CaseID,
		CaseType:        p.CaseType,
		Strategy:        p.Strategy,
		CaseOwner:       p.Owner,
		NewInstitutions: nonNil(p.NewInstitutions),
		Documents:       p.Documents,
	}
}

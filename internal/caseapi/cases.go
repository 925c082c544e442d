package caseapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"casebridge/internal/buc"
	"casebridge/internal/buc/ports"
	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/platform/sentinel"
	pstrings "casebridge/pkg/platform/strings"
)

// FetchCase retrieves and parses a case.
func (c *Client) FetchCase(ctx context.Context, caseID string, as ports.Identity) (buc.Case, error) {
	if err := requireID("case id", caseID); err != nil {
		return buc.Case{}, err
	}
	body, err := c.do(ctx, request{
		operation: "fetch_case",
		method:    http.MethodGet,
		path:      []string{"buc", caseID},
		as:        as,
		subject:   "case " + caseID,
	})
	if err != nil {
		return buc.Case{}, err
	}

	var dto caseDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return buc.Case{}, badData(caseID, err)
	}
	return toCase(dto, c.logger)
}

// FetchDocument returns the full content of one document, uninterpreted.
func (c *Client) FetchDocument(ctx context.Context, caseID, documentID string) (json.RawMessage, error) {
	if err := requireID("case id", caseID); err != nil {
		return nil, err
	}
	if err := requireID("document id", documentID); err != nil {
		return nil, err
	}
	body, err := c.do(ctx, request{
		operation: "fetch_document",
		method:    http.MethodGet,
		path:      []string{"buc", caseID, "sed", documentID},
		as:        ports.AsCaller,
		subject:   "document " + documentID,
	})
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, dErrors.Wrap(sentinel.ErrBadData, dErrors.CodeInternal, "document "+documentID+" is not valid JSON")
	}
	return json.RawMessage(body), nil
}

// CreateDocument creates a document on the case as the service itself.
func (c *Client) CreateDocument(ctx context.Context, caseID string, doc ports.NewDocument) (ports.CreatedDocument, error) {
	if err := requireID("case id", caseID); err != nil {
		return ports.CreatedDocument{}, err
	}
	body, err := c.do(ctx, request{
		operation: "create_document",
		method:    http.MethodPost,
		path:      []string{"buc", caseID, "sed"},
		body: createDocumentRequest{
			Type:             doc.Type.String(),
			ParentDocumentID: doc.ParentDocumentID,
			Document:         doc.Payload,
		},
		as:      ports.AsSystem,
		subject: "case " + caseID,
	})
	if err != nil {
		return ports.CreatedDocument{}, err
	}

	var resp createDocumentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ports.CreatedDocument{}, badData(caseID, err)
	}
	if err := validate.Struct(resp); err != nil {
		return ports.CreatedDocument{}, badData(caseID, err)
	}
	if resp.CaseID == "" {
		resp.CaseID = caseID
	}
	return ports.CreatedDocument{CaseID: resp.CaseID, DocumentID: resp.DocumentID}, nil
}

// AddParticipants registers institutions on the case as the service itself.
func (c *Client) AddParticipants(ctx context.Context, caseID string, institutionIDs []string) error {
	if err := requireID("case id", caseID); err != nil {
		return err
	}
	institutionIDs = pstrings.DedupeFunc(institutionIDs, normalizeInstitutionID)
	if len(institutionIDs) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "no institutions to add")
	}
	_, err := c.do(ctx, request{
		operation: "add_participants",
		method:    http.MethodPut,
		path:      []string{"buc", caseID, "participants"},
		body:      addParticipantsRequest{Institutions: institutionIDs},
		as:        ports.AsSystem,
		subject:   "case " + caseID,
	})
	return err
}

// normalizeInstitutionID upper-cases the country prefix of "<country>:<code>".
func normalizeInstitutionID(id string) string {
	id = strings.TrimSpace(id)
	if country, code, ok := strings.Cut(id, ":"); ok {
		return strings.ToUpper(country) + ":" + code
	}
	return id
}

func requireID(name, id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, "/?#") {
		return dErrors.New(dErrors.CodeBadRequest, "invalid "+name)
	}
	return nil
}

// Package prefill calls the document-content generator that produces the
// payload of a document before it is submitted to a case.
package prefill

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"casebridge/internal/buc"
	"casebridge/internal/buc/ports"
	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/platform/sentinel"
	"casebridge/pkg/requestcontext"
)

const maxPayloadSize = 5 * 1024 * 1024

// Client implements ports.Prefiller over HTTP.
type Client struct {
	url  string
	http *http.Client
}

var _ ports.Prefiller = (*Client)(nil)

// New creates a Client posting to {baseURL}/prefill.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:  strings.TrimRight(baseURL, "/") + "/prefill",
		http: &http.Client{Timeout: timeout},
	}
}

type institutionDTO struct {
	Country string `json:"countryCode"`
	ID      string `json:"institution"`
}

type prefillRequest struct {
	CaseID       string           `json:"caseId"`
	CaseType     string           `json:"caseType"`
	DocumentType buc.DocumentType `json:"sed"`
	Institutions []institutionDTO `json:"institutions"`
}

// Prefill returns the generated document payload.
func (c *Client) Prefill(ctx context.Context, req ports.PrefillRequest) (json.RawMessage, error) {
	body := prefillRequest{
		CaseID:       req.CaseID,
		CaseType:     req.CaseType,
		DocumentType: req.DocumentType,
		Institutions: make([]institutionDTO, 0, len(req.Institutions)),
	}
	for _, inst := range req.Institutions {
		body.Institutions = append(body.Institutions, institutionDTO{Country: inst.Country, ID: inst.ID})
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode prefill request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(raw))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build prefill request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token := requestcontext.BearerToken(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable,
			"document prefill is unavailable")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize+1))
	if err != nil {
		return nil, dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable,
			"document prefill response could not be read")
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable,
			fmt.Sprintf("document prefill failed with status %d", resp.StatusCode))
	case resp.StatusCode >= 300:
		return nil, dErrors.Newf(dErrors.CodeValidation, "document prefill rejected %s for case %s (status %d)",
			req.DocumentType, req.CaseID, resp.StatusCode)
	case len(payload) > maxPayloadSize || !json.Valid(payload):
		return nil, dErrors.Wrap(sentinel.ErrBadData, dErrors.CodeInternal, "document prefill returned an invalid payload")
	}
	return json.RawMessage(payload), nil
}

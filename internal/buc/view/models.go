package view

import (
	"encoding/json"

	"casebridge/internal/buc"
	"casebridge/internal/buc/datetime"
	dErrors "casebridge/pkg/domain-errors"
)

// RestrictedMessage replaces upstream forbidden messages, which may reveal
// confidentiality details about the persons on a case.
const RestrictedMessage = "access to this case is restricted"

// CaseView is the caseworker-facing projection of a case.
type CaseView struct {
	Type             string                 `json:"type"`
	CaseID           string                 `json:"caseId"`
	Creator          *buc.Creator           `json:"creator,omitempty"`
	CaseOwner        *buc.Institution       `json:"caseOwner,omitempty"`
	Institutions     []buc.Institution      `json:"institutions"`
	Status           string                 `json:"status,omitempty"`
	StartDate        *int64                 `json:"startDate"`
	LastUpdate       *int64                 `json:"lastUpdate"`
	LastActivityDate *datetime.CalendarDate `json:"lastActivityDate"`
	Documents        []DocumentView         `json:"documents"`
}

// DocumentView is one flattened document with its resolved participants.
type DocumentView struct {
	ID               string             `json:"id"`
	Type             buc.DocumentType   `json:"type"`
	Status           buc.DocumentStatus `json:"status"`
	CreationDate     *int64             `json:"creationDate"`
	LastUpdate       *int64             `json:"lastUpdate"`
	ParentDocumentID string             `json:"parentDocumentId,omitempty"`
	Version          string             `json:"version,omitempty"`
	Attachments      []buc.Attachment   `json:"attachments"`
	// Participants holds the Sender and Receivers of the last conversation;
	// nil when the document has no conversation data.
	Participants []buc.Participant `json:"participants"`
}

// Outcome is either a built view or a per-case failure. Exactly one of the
// two is set; use View and Err to read it.
type Outcome struct {
	caseID string
	view   *CaseView
	err    error
}

// Ok wraps a built view.
func Ok(v *CaseView) Outcome {
	return Outcome{caseID: v.CaseID, view: v}
}

// Failed wraps a per-case failure.
func Failed(caseID string, err error) Outcome {
	if err == nil {
		err = dErrors.New(dErrors.CodeInternal, "case view could not be built")
	}
	return Outcome{caseID: caseID, err: err}
}

// CaseID returns the case the outcome belongs to.
func (o Outcome) CaseID() string {
	return o.caseID
}

// View returns the built view; ok is false for failures.
func (o Outcome) View() (*CaseView, bool) {
	return o.view, o.view != nil
}

// Err returns the failure, or nil for a built view.
func (o Outcome) Err() error {
	return o.err
}

// Message is the caseworker-facing failure text. Forbidden failures are
// rewritten to RestrictedMessage.
func (o Outcome) Message() string {
	if o.err == nil {
		return ""
	}
	switch {
	case dErrors.HasCode(o.err, dErrors.CodeForbidden):
		return RestrictedMessage
	case dErrors.HasCode(o.err, dErrors.CodeNotFound):
		return "case not found"
	default:
		return dErrors.Message(o.err)
	}
}

// startDate returns the normalized start date used for batch ordering.
func (o Outcome) startDate() (int64, bool) {
	if o.view == nil || o.view.StartDate == nil {
		return 0, false
	}
	return *o.view.StartDate, true
}

type failedJSON struct {
	CaseID string `json:"caseId"`
	Error  string `json:"error"`
}

// MarshalJSON renders a view as itself and a failure as {caseId, error}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.view != nil {
		return json.Marshal(o.view)
	}
	return json.Marshal(failedJSON{CaseID: o.caseID, Error: o.Message()})
}

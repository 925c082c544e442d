package audit

import "time"

// Event is the audit record of a case mutation issued by the service. It is
// serialized as JSON, one record per mutation.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	CaseID       string    `json:"caseId"`
	Caller       string    `json:"caller,omitempty"`
	RequestID    string    `json:"requestId,omitempty"`
	Strategy     string    `json:"strategy,omitempty"`
	Institutions []string  `json:"institutions,omitempty"`
	DocumentIDs  []string  `json:"documentIds,omitempty"`
	Failure      string    `json:"failure,omitempty"`
}

// Package ports declares the external collaborators the case core depends
// on. Adapters (HTTP clients, Kafka, Redis) implement them; services and
// tests depend only on these interfaces.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks CaseFetcher,DocumentFetcher,DocumentCreator,ParticipantAdder,Prefiller,AuditPublisher,CaseLocker

import (
	"context"
	"encoding/json"
	"time"

	"casebridge/internal/buc"
)

// Identity selects which credentials an outbound call is made with.
type Identity int

const (
	// AsCaller propagates the interactive user's token.
	AsCaller Identity = iota
	// AsSystem uses the service's own credentials.
	AsSystem
)

func (i Identity) String() string {
	if i == AsSystem {
		return "system"
	}
	return "caller"
}

// CaseFetcher retrieves a parsed case. Implementations return errors coded
// CodeNotFound, CodeForbidden or CodeUnavailable/CodeTimeout.
type CaseFetcher interface {
	FetchCase(ctx context.Context, caseID string, as Identity) (buc.Case, error)
}

// DocumentFetcher retrieves the full content of one document.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, caseID, documentID string) (json.RawMessage, error)
}

// NewDocument is a document submitted for creation.
type NewDocument struct {
	Type             buc.DocumentType
	ParentDocumentID string
	Payload          json.RawMessage
}

// CreatedDocument identifies a document created on a case.
type CreatedDocument struct {
	CaseID     string `json:"caseId"`
	DocumentID string `json:"documentId"`
}

// DocumentCreator creates a document on a case.
type DocumentCreator interface {
	CreateDocument(ctx context.Context, caseID string, doc NewDocument) (CreatedDocument, error)
}

// ParticipantAdder registers institutions directly on a case.
type ParticipantAdder interface {
	AddParticipants(ctx context.Context, caseID string, institutionIDs []string) error
}

// PrefillRequest asks the external generator for a document payload.
type PrefillRequest struct {
	CaseID       string
	CaseType     string
	DocumentType buc.DocumentType
	Institutions []buc.Institution
}

// Prefiller produces document content. The core never builds content itself.
type Prefiller interface {
	Prefill(ctx context.Context, req PrefillRequest) (json.RawMessage, error)
}

// AuditEvent records a mutation issued as a consequence of a core decision.
type AuditEvent struct {
	Action       string
	CaseID       string
	Caller       string
	RequestID    string
	Strategy     string
	Institutions []string
	DocumentIDs  []string
	// Failure is set when the mutation stopped partway; DocumentIDs then
	// lists what was created before it stopped.
	Failure   string
	Timestamp time.Time
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

// CaseLocker serializes participant mutations on one case across replicas.
// Release is idempotent.
type CaseLocker interface {
	Acquire(ctx context.Context, caseID string) (release func(context.Context) error, err error)
}

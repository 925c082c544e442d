package caseapi

import (
	"encoding/json"

	"casebridge/internal/buc"
)

// Wire shapes of the case-exchange API. Only the fields the case core reads
// are declared; everything else in the upstream document is ignored.

type caseDTO struct {
	ID                    string           `json:"id" validate:"required"`
	ProcessDefinitionName string           `json:"processDefinitionName" validate:"required"`
	Status                string           `json:"status"`
	StartDate             buc.RawDate      `json:"startDate"`
	LastUpdate            buc.RawDate      `json:"lastUpdate"`
	Creator               *creatorDTO      `json:"creator"`
	Participants          []participantDTO `json:"participants" validate:"dive"`
	Documents             []documentDTO    `json:"documents" validate:"dive"`
	Actions               []actionDTO      `json:"actions"`
}

type organisationDTO struct {
	CountryCode string `json:"countryCode"`
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name"`
	Acronym     string `json:"acronym"`
}

type creatorDTO struct {
	Name         string           `json:"name"`
	Organisation *organisationDTO `json:"organisation"`
}

type participantDTO struct {
	Role         string          `json:"role" validate:"required"`
	Organisation organisationDTO `json:"organisation"`
}

type actionDTO struct {
	Name         string `json:"name"`
	DocumentType string `json:"documentType"`
	DocumentID   string `json:"documentId"`
}

type documentDTO struct {
	ID               string            `json:"id" validate:"required"`
	Type             string            `json:"type" validate:"required"`
	Status           string            `json:"status" validate:"required"`
	ParentDocumentID string            `json:"parentDocumentId"`
	Version          string            `json:"version"`
	CreationDate     buc.RawDate       `json:"creationDate"`
	LastUpdate       buc.RawDate       `json:"lastUpdate"`
	Attachments      []attachmentDTO   `json:"attachments"`
	Conversations    []conversationDTO `json:"conversations"`
}

type attachmentDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

type conversationDTO struct {
	ID           string       `json:"id"`
	UserMessages []messageDTO `json:"userMessages"`
}

type messageDTO struct {
	Sender         *organisationDTO   `json:"sender"`
	Receiver       *organisationDTO   `json:"receiver"`
	BusinessHeader *businessHeaderDTO `json:"businessHeader"`
}

type businessHeaderDTO struct {
	Sender   *organisationDTO `json:"sender"`
	Receiver *organisationDTO `json:"receiver"`
}

type createDocumentRequest struct {
	Type             string          `json:"sed"`
	ParentDocumentID string          `json:"parentDocumentId,omitempty"`
	Document         json.RawMessage `json:"document,omitempty"`
}

type createDocumentResponse struct {
	CaseID     string `json:"caseId"`
	DocumentID string `json:"documentId" validate:"required"`
}

type addParticipantsRequest struct {
	Institutions []string `json:"institutions"`
}

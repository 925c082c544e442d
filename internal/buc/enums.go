package buc

import (
	"strings"

	dErrors "casebridge/pkg/domain-errors"
)

// DocumentStatus is the lifecycle state of a document on a case.
type DocumentStatus string

const (
	StatusEmpty     DocumentStatus = "empty"
	StatusDraft     DocumentStatus = "draft"
	StatusNew       DocumentStatus = "new"
	StatusActive    DocumentStatus = "active"
	StatusReceived  DocumentStatus = "received"
	StatusSent      DocumentStatus = "sent"
	StatusCancelled DocumentStatus = "cancelled"
)

var documentStatuses = map[DocumentStatus]struct{}{
	StatusEmpty:     {},
	StatusDraft:     {},
	StatusNew:       {},
	StatusActive:    {},
	StatusReceived:  {},
	StatusSent:      {},
	StatusCancelled: {},
}

// ParseDocumentStatus parses a wire status case-insensitively.
func ParseDocumentStatus(raw string) (DocumentStatus, error) {
	s := DocumentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := documentStatuses[s]; !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown document status %q", raw)
	}
	return s, nil
}

// IsLive reports whether the document counts as existing on the case.
// Empty placeholders and cancelled documents do not.
func (s DocumentStatus) IsLive() bool {
	return s != StatusEmpty && s != StatusCancelled
}

// IsOpenDraft reports whether the document is being worked on locally and
// has not been sent yet.
func (s DocumentStatus) IsOpenDraft() bool {
	return s == StatusDraft || s == StatusNew
}

// ParticipantRole is the role of an institution on a case or a document.
type ParticipantRole string

const (
	RoleCaseOwner    ParticipantRole = "CaseOwner"
	RoleCounterParty ParticipantRole = "CounterParty"
	RoleSender       ParticipantRole = "Sender"
	RoleReceiver     ParticipantRole = "Receiver"
)

var participantRoles = map[string]ParticipantRole{
	"caseowner":    RoleCaseOwner,
	"counterparty": RoleCounterParty,
	"sender":       RoleSender,
	"receiver":     RoleReceiver,
}

// ParseParticipantRole parses a wire role case-insensitively.
func ParseParticipantRole(raw string) (ParticipantRole, error) {
	role, ok := participantRoles[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown participant role %q", raw)
	}
	return role, nil
}

// ActionName names a transition the case-exchange system allows.
type ActionName string

const (
	ActionCreate ActionName = "Create"
	ActionSend   ActionName = "Send"
	ActionUpdate ActionName = "Update"
	ActionDelete ActionName = "Delete"
	ActionRead   ActionName = "Read"
	ActionReply  ActionName = "Reply"
	ActionCancel ActionName = "Cancel"
)

var actionNames = map[string]ActionName{
	"create": ActionCreate,
	"send":   ActionSend,
	"update": ActionUpdate,
	"delete": ActionDelete,
	"read":   ActionRead,
	"reply":  ActionReply,
	"cancel": ActionCancel,
}

// ParseActionName parses a wire action name case-insensitively.
func ParseActionName(raw string) (ActionName, error) {
	name, ok := actionNames[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown action %q", raw)
	}
	return name, nil
}

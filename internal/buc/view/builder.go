// Package view reshapes a parsed case into the stable view models used by
// caseworkers, one case at a time or over a batch of case ids.
package view

import (
	"context"
	"log/slog"
	"strings"

	"casebridge/internal/buc"
	"casebridge/internal/buc/datetime"
	dErrors "casebridge/pkg/domain-errors"
)

// Builder turns a parsed case into a CaseView. It is pure apart from debug
// logging and safe for concurrent use.
type Builder struct {
	dates  datetime.Normalizer
	logger *slog.Logger
}

// NewBuilder creates a Builder. A nil logger discards output.
func NewBuilder(dates datetime.Normalizer, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{dates: dates, logger: logger}
}

// Build projects c into a view. A case that violates the model invariants
// yields a failed outcome rather than an error.
func (b *Builder) Build(c buc.Case) Outcome {
	if strings.TrimSpace(c.ProcessDefinitionName) == "" {
		return Failed(c.ID, dErrors.Newf(dErrors.CodeInvariantViolation, "case %s has no process definition", c.ID))
	}

	v := &CaseView{
		Type:         c.ProcessDefinitionName,
		CaseID:       c.ID,
		Creator:      c.Creator,
		Institutions: institutions(c.Participants),
		Status:       c.Status,
		StartDate:    b.dates.MillisPtr(c.StartDate),
		LastUpdate:   b.dates.MillisPtr(c.LastUpdate),
		Documents:    make([]DocumentView, 0, len(c.Documents)),
	}
	if owner, ok := c.Owner(); ok {
		v.CaseOwner = &owner
	}
	if d, ok := b.dates.Date(c.LastUpdate); ok {
		v.LastActivityDate = &d
	}
	for _, doc := range c.Documents {
		v.Documents = append(v.Documents, b.document(c.ID, doc))
	}
	return Ok(v)
}

func (b *Builder) document(caseID string, d buc.Document) DocumentView {
	attachments := d.Attachments
	if attachments == nil {
		attachments = []buc.Attachment{}
	}
	return DocumentView{
		ID:               d.ID,
		Type:             d.Type,
		Status:           d.Status,
		CreationDate:     b.dates.MillisPtr(d.CreationDate),
		LastUpdate:       b.dates.MillisPtr(d.LastUpdate),
		ParentDocumentID: d.ParentDocumentID,
		Version:          d.Version,
		Attachments:      attachments,
		Participants:     b.resolveParticipants(caseID, d),
	}
}

// resolveParticipants reads sender and receivers from the document's last
// conversation only. Earlier conversations never contribute.
//
// Institution replacements (X007) are expected to be reflected in the
// document's own conversations by the upstream system; they are not
// re-derived from case-level events here.
func (b *Builder) resolveParticipants(caseID string, d buc.Document) []buc.Participant {
	if len(d.Conversations) == 0 {
		return nil
	}
	last := d.Conversations[len(d.Conversations)-1]

	var sender *buc.Institution
	var receivers []buc.Institution
	seen := make(map[buc.InstitutionKey]struct{})

	for _, m := range last.Messages {
		b.crossCheck(caseID, d.ID, m)

		if sender == nil {
			sender = pick(m.Sender, headerSender(m.Header))
		}
		if r := pick(m.Receiver, headerReceiver(m.Header)); r != nil {
			if _, dup := seen[r.Key()]; !dup {
				seen[r.Key()] = struct{}{}
				receivers = append(receivers, *r)
			}
		}
	}

	if sender == nil && len(receivers) == 0 {
		return nil
	}
	participants := make([]buc.Participant, 0, 1+len(receivers))
	if sender != nil {
		participants = append(participants, buc.Participant{Role: buc.RoleSender, Institution: *sender})
	}
	for _, r := range receivers {
		participants = append(participants, buc.Participant{Role: buc.RoleReceiver, Institution: r})
	}
	return participants
}

// crossCheck logs when the business header disagrees with the message.
// The message participants win.
func (b *Builder) crossCheck(caseID, documentID string, m buc.Message) {
	if m.Header == nil {
		return
	}
	if differs(m.Sender, m.Header.Sender) || differs(m.Receiver, m.Header.Receiver) {
		b.logger.DebugContext(context.Background(), "business header disagrees with message participants",
			"case_id", caseID,
			"document_id", documentID,
		)
	}
}

func institutions(participants []buc.Participant) []buc.Institution {
	out := make([]buc.Institution, 0, len(participants))
	for _, p := range participants {
		out = append(out, p.Institution)
	}
	return out
}

func pick(primary, fallback *buc.Institution) *buc.Institution {
	if primary != nil && primary.ID != "" {
		return primary
	}
	if fallback != nil && fallback.ID != "" {
		return fallback
	}
	return nil
}

func headerSender(h *buc.BusinessHeader) *buc.Institution {
	if h == nil {
		return nil
	}
	return h.Sender
}

func headerReceiver(h *buc.BusinessHeader) *buc.Institution {
	if h == nil {
		return nil
	}
	return h.Receiver
}

func differs(a, b *buc.Institution) bool {
	if a == nil || b == nil {
		return false
	}
	return !a.SameAs(*b)
}

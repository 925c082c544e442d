package caseapi

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"casebridge/internal/buc"
	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/platform/sentinel"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// toCase validates the wire document once and builds the closed model.
// Unknown statuses and roles reject the whole case. Documents of an unknown
// type are kept under their raw code so views still list them; no catalogue
// rule ever matches them. Action names outside the model are dropped since
// they never affect eligibility.
func toCase(dto caseDTO, logger *slog.Logger) (buc.Case, error) {
	if err := validate.Struct(dto); err != nil {
		return buc.Case{}, badData(dto.ID, err)
	}

	c := buc.Case{
		ID:                    dto.ID,
		ProcessDefinitionName: dto.ProcessDefinitionName,
		Status:                dto.Status,
		StartDate:             dto.StartDate,
		LastUpdate:            dto.LastUpdate,
	}

	if dto.Creator != nil && dto.Creator.Organisation != nil {
		c.Creator = &buc.Creator{Name: dto.Creator.Name, Institution: toInstitution(*dto.Creator.Organisation)}
	}

	for _, p := range dto.Participants {
		role, err := buc.ParseParticipantRole(p.Role)
		if err != nil {
			return buc.Case{}, badData(dto.ID, err)
		}
		c.Participants = append(c.Participants, buc.Participant{Role: role, Institution: toInstitution(p.Organisation)})
	}

	for _, a := range dto.Actions {
		name, err := buc.ParseActionName(a.Name)
		if err != nil {
			logger.Debug("dropping unknown case action", "case_id", dto.ID, "action", a.Name)
			continue
		}
		action := buc.Action{Name: name, DocumentID: a.DocumentID}
		if strings.TrimSpace(a.DocumentType) != "" {
			t, err := buc.ParseDocumentType(a.DocumentType)
			if err != nil {
				logger.Debug("dropping action on unknown document type", "case_id", dto.ID, "type", a.DocumentType)
				continue
			}
			action.DocumentType = t
		}
		c.Actions = append(c.Actions, action)
	}

	for _, d := range dto.Documents {
		doc, err := toDocument(d)
		if err == nil && !doc.Type.IsKnown() {
			logger.Debug("keeping document of unknown type", "case_id", dto.ID, "document_id", d.ID, "type", d.Type)
		}
		if err != nil {
			return buc.Case{}, badData(dto.ID, err)
		}
		c.Documents = append(c.Documents, doc)
	}

	return c, nil
}

func toDocument(d documentDTO) (buc.Document, error) {
	t, err := buc.ParseDocumentType(d.Type)
	if err != nil {
		t = buc.DocumentType(strings.ToUpper(strings.TrimSpace(d.Type)))
	}
	status, err := buc.ParseDocumentStatus(d.Status)
	if err != nil {
		return buc.Document{}, err
	}

	doc := buc.Document{
		ID:               d.ID,
		Type:             t,
		Status:           status,
		ParentDocumentID: d.ParentDocumentID,
		Version:          d.Version,
		CreationDate:     d.CreationDate,
		LastUpdate:       d.LastUpdate,
		Attachments:      make([]buc.Attachment, 0, len(d.Attachments)),
	}
	for _, a := range d.Attachments {
		doc.Attachments = append(doc.Attachments, buc.Attachment(a))
	}
	for _, conv := range d.Conversations {
		c := buc.Conversation{ID: conv.ID}
		for _, m := range conv.UserMessages {
			msg := buc.Message{Sender: toInstitutionPtr(m.Sender), Receiver: toInstitutionPtr(m.Receiver)}
			if h := m.BusinessHeader; h != nil {
				msg.Header = &buc.BusinessHeader{Sender: toInstitutionPtr(h.Sender), Receiver: toInstitutionPtr(h.Receiver)}
			}
			c.Messages = append(c.Messages, msg)
		}
		doc.Conversations = append(doc.Conversations, c)
	}
	return doc, nil
}

// toInstitution falls back to the id prefix when the country is missing.
func toInstitution(o organisationDTO) buc.Institution {
	inst := buc.Institution{
		Country: strings.ToUpper(strings.TrimSpace(o.CountryCode)),
		ID:      strings.TrimSpace(o.ID),
		Name:    o.Name,
		Acronym: o.Acronym,
	}
	if inst.Country == "" {
		if parsed, err := buc.ParseInstitutionID(inst.ID); err == nil {
			inst.Country = parsed.Country
		}
	}
	return inst
}

func toInstitutionPtr(o *organisationDTO) *buc.Institution {
	if o == nil || strings.TrimSpace(o.ID) == "" {
		return nil
	}
	inst := toInstitution(*o)
	return &inst
}

func badData(caseID string, err error) error {
	return dErrors.Wrap(errors.Join(sentinel.ErrBadData, err), dErrors.CodeInternal, "case "+caseID+" could not be interpreted")
}

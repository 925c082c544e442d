// Package buc holds the closed model of a cross-border case (BUC) and its
// documents (SEDs). Values are rebuilt from the upstream case document on
// every request and never mutated afterwards.
package buc

// Case is a cross-border exchange case.
type Case struct {
	ID                    string
	ProcessDefinitionName string
	Status                string
	Creator               *Creator
	Participants          []Participant
	Documents             []Document
	Actions               []Action
	StartDate             RawDate
	LastUpdate            RawDate
}

// Creator is the institution (and optionally the user) that created a case.
type Creator struct {
	Name        string      `json:"name,omitempty"`
	Institution Institution `json:"organisation"`
}

// Participant is an institution acting in a role.
type Participant struct {
	Role        ParticipantRole `json:"role"`
	Institution Institution     `json:"organisation"`
}

// Action is a legal transition on the case.
type Action struct {
	Name         ActionName
	DocumentType DocumentType
	DocumentID   string
}

// Document is a SED attached to a case.
type Document struct {
	ID string
	// Type may be a code outside the catalogue (see DocumentType.IsKnown)
	// when the case-exchange system sends one this service does not model.
	Type             DocumentType
	Status           DocumentStatus
	ParentDocumentID string
	Version          string
	Attachments      []Attachment
	Conversations    []Conversation
	CreationDate     RawDate
	LastUpdate       RawDate
}

// Attachment is a file attached to a document.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Conversation is one exchange on a document. Conversations are kept in
// occurrence order; the last one is the most recent.
type Conversation struct {
	ID       string
	Messages []Message
}

// Message names the sender and receiver of one exchange.
type Message struct {
	Sender   *Institution
	Receiver *Institution
	Header   *BusinessHeader
}

// BusinessHeader carries the sender and receiver as declared in the
// transport envelope, independently of the message participants.
type BusinessHeader struct {
	Sender   *Institution
	Receiver *Institution
}

// CaseOwner returns the participant with role CaseOwner.
func (c Case) CaseOwner() (Institution, bool) {
	for _, p := range c.Participants {
		if p.Role == RoleCaseOwner {
			return p.Institution, true
		}
	}
	return Institution{}, false
}

// Owner returns the case owner, falling back to the creator's institution.
func (c Case) Owner() (Institution, bool) {
	if owner, ok := c.CaseOwner(); ok {
		return owner, true
	}
	if c.Creator != nil && c.Creator.Institution.ID != "" {
		return c.Creator.Institution, true
	}
	return Institution{}, false
}

// Document looks a document up by id.
func (c Case) Document(id string) (Document, bool) {
	for _, d := range c.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// HasDocumentOfType reports whether any document of type t exists on the
// case, in any status.
func (c Case) HasDocumentOfType(t DocumentType) bool {
	for _, d := range c.Documents {
		if d.Type == t {
			return true
		}
	}
	return false
}

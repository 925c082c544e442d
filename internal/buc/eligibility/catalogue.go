package eligibility

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"casebridge/internal/buc"
)

//go:embed catalogue.yaml
var referenceCatalogue []byte

const referenceCaseTypes = 10

type catalogueFile struct {
	MediatingDocumentType string          `yaml:"mediatingDocumentType"`
	CaseTypes             []caseTypeEntry `yaml:"caseTypes"`
}

type caseTypeEntry struct {
	Name      string     `yaml:"name"`
	Documents []string   `yaml:"documents"`
	Rounds    [][]string `yaml:"rounds"`
}

type caseType struct {
	documents []buc.DocumentType
	// roundOf maps a document type to the members of its round.
	roundOf map[buc.DocumentType][]buc.DocumentType
}

// Catalogue is the immutable case type to document type table. Build it
// once at start with LoadCatalogue and share it.
type Catalogue struct {
	caseTypes map[string]caseType
	names     []string
	mediating buc.DocumentType
}

// LoadCatalogue parses the embedded reference catalogue.
func LoadCatalogue() (*Catalogue, error) {
	c, err := ParseCatalogue(referenceCatalogue)
	if err != nil {
		return nil, err
	}
	if len(c.names) != referenceCaseTypes {
		return nil, fmt.Errorf("reference catalogue has %d case types, want %d", len(c.names), referenceCaseTypes)
	}
	return c, nil
}

// ParseCatalogue parses and validates a catalogue document. Unknown fields,
// unknown document codes, duplicate case types and rounds naming documents
// outside their case type are rejected.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var file catalogueFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	mediating, err := buc.ParseDocumentType(file.MediatingDocumentType)
	if err != nil {
		return nil, fmt.Errorf("mediatingDocumentType: %w", err)
	}
	if len(file.CaseTypes) == 0 {
		return nil, fmt.Errorf("catalogue has no case types")
	}

	c := &Catalogue{
		caseTypes: make(map[string]caseType, len(file.CaseTypes)),
		mediating: mediating,
	}
	for _, entry := range file.CaseTypes {
		if entry.Name == "" {
			return nil, fmt.Errorf("case type without a name")
		}
		if _, dup := c.caseTypes[entry.Name]; dup {
			return nil, fmt.Errorf("case type %s listed twice", entry.Name)
		}
		ct, err := parseCaseType(entry)
		if err != nil {
			return nil, fmt.Errorf("case type %s: %w", entry.Name, err)
		}
		c.caseTypes[entry.Name] = ct
		c.names = append(c.names, entry.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

func parseCaseType(entry caseTypeEntry) (caseType, error) {
	if len(entry.Documents) == 0 {
		return caseType{}, fmt.Errorf("no documents")
	}
	ct := caseType{roundOf: make(map[buc.DocumentType][]buc.DocumentType)}
	allowed := make(map[buc.DocumentType]struct{}, len(entry.Documents))
	for _, raw := range entry.Documents {
		t, err := buc.ParseDocumentType(raw)
		if err != nil {
			return caseType{}, err
		}
		if _, dup := allowed[t]; dup {
			return caseType{}, fmt.Errorf("document %s listed twice", t)
		}
		allowed[t] = struct{}{}
		ct.documents = append(ct.documents, t)
	}

	for i, round := range entry.Rounds {
		if len(round) < 2 {
			return caseType{}, fmt.Errorf("round %d needs at least two documents", i)
		}
		members := make([]buc.DocumentType, 0, len(round))
		for _, raw := range round {
			t, err := buc.ParseDocumentType(raw)
			if err != nil {
				return caseType{}, err
			}
			if _, ok := allowed[t]; !ok {
				return caseType{}, fmt.Errorf("round %d names %s which is not a document of the case type", i, t)
			}
			if _, taken := ct.roundOf[t]; taken {
				return caseType{}, fmt.Errorf("document %s is in more than one round", t)
			}
			members = append(members, t)
		}
		for _, t := range members {
			ct.roundOf[t] = members
		}
	}
	return ct, nil
}

// CaseTypes returns the catalogued case types in name order.
func (c *Catalogue) CaseTypes() []string {
	return append([]string(nil), c.names...)
}

// Documents returns the document types allowed on a case type.
func (c *Catalogue) Documents(caseTypeName string) ([]buc.DocumentType, bool) {
	ct, ok := c.caseTypes[caseTypeName]
	if !ok {
		return nil, false
	}
	return append([]buc.DocumentType(nil), ct.documents...), true
}

// IsMultiRound reports whether the case type has exchange rounds.
func (c *Catalogue) IsMultiRound(caseTypeName string) bool {
	return len(c.caseTypes[caseTypeName].roundOf) > 0
}

// Round returns the members of t's round on the case type, or nil when t is
// a single-instance document there.
func (c *Catalogue) Round(caseTypeName string, t buc.DocumentType) []buc.DocumentType {
	return c.caseTypes[caseTypeName].roundOf[t]
}

// MediatingDocumentType is the document that introduces a new institution
// to an active case.
func (c *Catalogue) MediatingDocumentType() buc.DocumentType {
	return c.mediating
}

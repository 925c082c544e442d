package buc

import (
	"strings"

	dErrors "casebridge/pkg/domain-errors"
)

// DocumentType is a SED type code from the closed catalogue below.
type DocumentType string

const (
	P1000  DocumentType = "P1000"
	P1100  DocumentType = "P1100"
	P2000  DocumentType = "P2000"
	P2100  DocumentType = "P2100"
	P2200  DocumentType = "P2200"
	P3000  DocumentType = "P3000"
	P4000  DocumentType = "P4000"
	P5000  DocumentType = "P5000"
	P6000  DocumentType = "P6000"
	P7000  DocumentType = "P7000"
	P8000  DocumentType = "P8000"
	P9000  DocumentType = "P9000"
	P10000 DocumentType = "P10000"
	P11000 DocumentType = "P11000"
	P12000 DocumentType = "P12000"
	P13000 DocumentType = "P13000"
	P14000 DocumentType = "P14000"
	P15000 DocumentType = "P15000"

	// Horizontal documents.
	H001 DocumentType = "H001"
	H002 DocumentType = "H002"
	H020 DocumentType = "H020"
	H021 DocumentType = "H021"
	H070 DocumentType = "H070"
	H120 DocumentType = "H120"
	H121 DocumentType = "H121"

	// Administrative documents.
	X001 DocumentType = "X001"
	X002 DocumentType = "X002"
	X003 DocumentType = "X003"
	X004 DocumentType = "X004"
	X005 DocumentType = "X005"
	X006 DocumentType = "X006"
	X007 DocumentType = "X007"
	X008 DocumentType = "X008"
	X009 DocumentType = "X009"
	X010 DocumentType = "X010"
	X011 DocumentType = "X011"
	X012 DocumentType = "X012"
	X013 DocumentType = "X013"
	X050 DocumentType = "X050"
	X100 DocumentType = "X100"
)

var documentTypes = func() map[DocumentType]struct{} {
	all := []DocumentType{
		P1000, P1100, P2000, P2100, P2200, P3000, P4000, P5000, P6000, P7000,
		P8000, P9000, P10000, P11000, P12000, P13000, P14000, P15000,
		H001, H002, H020, H021, H070, H120, H121,
		X001, X002, X003, X004, X005, X006, X007, X008, X009, X010,
		X011, X012, X013, X050, X100,
	}
	m := make(map[DocumentType]struct{}, len(all))
	for _, t := range all {
		m[t] = struct{}{}
	}
	return m
}()

// ParseDocumentType parses a wire type code. Unknown codes are rejected.
func ParseDocumentType(raw string) (DocumentType, error) {
	t := DocumentType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.IsKnown() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown document type %q", raw)
	}
	return t, nil
}

// IsKnown reports whether t belongs to the catalogue.
func (t DocumentType) IsKnown() bool {
	_, ok := documentTypes[t]
	return ok
}

func (t DocumentType) String() string {
	return string(t)
}

package buc

import (
	"strings"

	dErrors "casebridge/pkg/domain-errors"
)

// LocalCountry is the country of the institution operating this service.
const LocalCountry = "NO"

// Institution is a national pension or social-security authority.
// ID has the form "<country>:<code>", e.g. "NO:NAVAT07".
type Institution struct {
	Country string `json:"countryCode"`
	ID      string `json:"institution"`
	Name    string `json:"name,omitempty"`
	Acronym string `json:"acronym,omitempty"`
}

// InstitutionKey is the identity of an institution; names are descriptive.
type InstitutionKey struct {
	Country string
	ID      string
}

// Key returns the normalized identity used for equality.
func (i Institution) Key() InstitutionKey {
	return InstitutionKey{
		Country: strings.ToUpper(strings.TrimSpace(i.Country)),
		ID:      strings.TrimSpace(i.ID),
	}
}

// SameAs compares institutions by (country, id) only.
func (i Institution) SameAs(other Institution) bool {
	return i.Key() == other.Key()
}

// IsLocal reports whether the institution belongs to LocalCountry.
func (i Institution) IsLocal() bool {
	return i.Key().Country == LocalCountry
}

// ParseInstitutionID builds an Institution from "<country>:<code>".
func ParseInstitutionID(raw string) (Institution, error) {
	raw = strings.TrimSpace(raw)
	country, code, ok := strings.Cut(raw, ":")
	country = strings.ToUpper(strings.TrimSpace(country))
	code = strings.TrimSpace(code)
	if !ok || len(country) != 2 || code == "" {
		return Institution{}, dErrors.Newf(dErrors.CodeValidation, "institution id %q must have the form <country>:<code>", raw)
	}
	return Institution{Country: country, ID: country + ":" + code}, nil
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"casebridge/internal/buc"
	dErrors "casebridge/pkg/domain-errors"
	pstrings "casebridge/pkg/platform/strings"
)

const maxBatchCases = 100

// validate reports fields by their JSON names.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}()

// ViewsRequest is the body of POST /cases/views.
type ViewsRequest struct {
	CaseIDs []string `json:"caseIds"`
}

// Validate trims and deduplicates the case ids.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ViewsRequest) Validate() error {
	r.CaseIDs = pstrings.DedupeAndTrim(r.CaseIDs)
	if len(r.CaseIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "caseIds is required")
	}
	if len(r.CaseIDs) > maxBatchCases {
		return dErrors.Newf(dErrors.CodeValidation, "caseIds must contain at most %d ids", maxBatchCases)
	}
	return nil
}

// CheckDocumentRequest is the body of POST /cases/{caseID}/documents/check.
type CheckDocumentRequest struct {
	DocumentType     string `json:"documentType" validate:"required"`
	ParentDocumentID string `json:"parentDocumentId" validate:"max=64"`

	parsedType buc.DocumentType
}

func (r *CheckDocumentRequest) Validate() error {
	r.DocumentType = strings.TrimSpace(r.DocumentType)
	r.ParentDocumentID = strings.TrimSpace(r.ParentDocumentID)
	if err := validateStruct(r); err != nil {
		return err
	}
	t, err := buc.ParseDocumentType(r.DocumentType)
	if err != nil {
		return err
	}
	r.parsedType = t
	return nil
}

// ParsedType returns the validated document type.
func (r *CheckDocumentRequest) ParsedType() buc.DocumentType {
	return r.parsedType
}

// CreateDocumentRequest is the body of POST /cases/{caseID}/documents. The
// document content is forwarded as is.
type CreateDocumentRequest struct {
	CheckDocumentRequest
	Document json.RawMessage `json:"document"`
}

func (r *CreateDocumentRequest) Validate() error {
	if err := r.CheckDocumentRequest.Validate(); err != nil {
		return err
	}
	if len(r.Document) == 0 || string(r.Document) == "null" {
		return dErrors.New(dErrors.CodeValidation, "document is required")
	}
	if !json.Valid(r.Document) {
		return dErrors.New(dErrors.CodeValidation, "document must be valid JSON")
	}
	return nil
}

// InstitutionRequest names one candidate institution.
type InstitutionRequest struct {
	ID      string `json:"id" validate:"required,max=32"`
	Name    string `json:"name" validate:"max=255"`
	Acronym string `json:"acronym" validate:"max=32"`
}

// AddInstitutionsRequest is the body of POST /cases/{caseID}/institutions.
// An empty list is accepted; whether it is meaningful depends on the case.
type AddInstitutionsRequest struct {
	Institutions []InstitutionRequest `json:"institutions" validate:"max=50,dive"`

	parsed []buc.Institution
}

func (r *AddInstitutionsRequest) Validate() error {
	for i := range r.Institutions {
		r.Institutions[i].ID = strings.TrimSpace(r.Institutions[i].ID)
		r.Institutions[i].Name = strings.TrimSpace(r.Institutions[i].Name)
	}
	if err := validateStruct(r); err != nil {
		return err
	}
	r.parsed = make([]buc.Institution, 0, len(r.Institutions))
	for _, in := range r.Institutions {
		inst, err := buc.ParseInstitutionID(in.ID)
		if err != nil {
			return err
		}
		inst.Name = in.Name
		inst.Acronym = in.Acronym
		r.parsed = append(r.parsed, inst)
	}
	return nil
}

// Candidates returns the parsed institutions in request order.
func (r *AddInstitutionsRequest) Candidates() []buc.Institution {
	return r.parsed
}

// validateStruct runs struct tags and reports the first failing field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return dErrors.New(dErrors.CodeValidation, fieldMessage(fe))
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

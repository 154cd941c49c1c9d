package entity

import "strings"

// Reserved field names carrying pipeline metadata rather than document content.
const (
	FieldError        = "_error"
	FieldDocumentType = "_document_type"
)

// ExtractedField is one field recovered from document text. Immutable once
// created; Confidence is in [0,1]. Names starting with "_" are internal and
// never shown in user-facing views.
type ExtractedField struct {
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	Confidence float32 `json:"confidence"`
}

// Internal reports whether the field carries pipeline metadata.
func (f ExtractedField) Internal() bool {
	return strings.HasPrefix(f.Name, "_")
}

// ValidationResult is the outcome of a single compliance rule. ErrorMessage
// is set only when the rule failed.
type ValidationResult struct {
	FieldName     string `json:"field_name"`
	Passed        bool   `json:"passed"`
	ErrorMessage  string `json:"error_message,omitempty"`
	FieldLocation string `json:"field_location,omitempty"`
}

// VisibleFields drops every internal ("_"-prefixed) field. Used for all
// user-facing field listings.
func VisibleFields(fields []ExtractedField) []ExtractedField {
	out := make([]ExtractedField, 0, len(fields))
	for _, f := range fields {
		if !f.Internal() {
			out = append(out, f)
		}
	}
	return out
}

// ErrorFields selects the "_error"-prefixed sentinels. This is narrower than
// the Internal filter on purpose: the error-inspection view wants these even
// though general internal fields stay hidden.
func ErrorFields(fields []ExtractedField) []ExtractedField {
	var out []ExtractedField
	for _, f := range fields {
		if strings.HasPrefix(f.Name, FieldError) {
			out = append(out, f)
		}
	}
	return out
}

// FieldMap folds a field list into a name -> value map, later duplicates
// overwriting earlier ones.
func FieldMap(fields []ExtractedField) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}

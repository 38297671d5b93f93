package domain

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// MaxSummaryTitleLength bounds the summary title in characters.
const MaxSummaryTitleLength = 120

type summaryFieldKind int

const (
	kindString summaryFieldKind = iota
	kindList
)

type summaryField struct {
	name     string
	kind     summaryFieldKind
	nonEmpty bool
}

// summaryFields is checked in order; the first violation wins.
var summaryFields = []summaryField{
	{name: "titulo", kind: kindString},
	{name: "temas_tratados", kind: kindList, nonEmpty: true},
	{name: "resumen_general", kind: kindString},
	{name: "pendientes", kind: kindList},
	{name: "tags", kind: kindList, nonEmpty: true},
	{name: "acuerdos", kind: kindList},
	{name: "riesgos", kind: kindList},
	{name: "decisiones", kind: kindList},
}

// ValidateSummaryPayload checks a decoded summary document and returns a
// *SummaryPayloadValidationError describing the first violation.
func ValidateSummaryPayload(payload map[string]any) error {
	if payload == nil {
		return &SummaryPayloadValidationError{Message: "Summary payload must be an object"}
	}

	for _, f := range summaryFields {
		v, ok := payload[f.name]
		if !ok {
			return &SummaryPayloadValidationError{
				Message: fmt.Sprintf("Missing key '%s' in summary payload", f.name),
			}
		}

		switch f.kind {
		case kindString:
			s, ok := v.(string)
			if !ok {
				return typeError(f.name, "string")
			}
			if f.name == "titulo" && utf8.RuneCountInString(s) > MaxSummaryTitleLength {
				return &SummaryPayloadValidationError{
					Message: fmt.Sprintf("Field 'titulo' exceeds %d characters", MaxSummaryTitleLength),
				}
			}
		case kindList:
			list, ok := v.([]any)
			if !ok {
				return typeError(f.name, "list")
			}
			if f.nonEmpty && len(list) == 0 {
				return &SummaryPayloadValidationError{
					Message: fmt.Sprintf("Field '%s' must contain at least one item", f.name),
				}
			}
		}
	}
	return nil
}

func typeError(field, kind string) error {
	return &SummaryPayloadValidationError{
		Message: fmt.Sprintf("Field '%s' must be of type %s", field, kind),
	}
}

// DecodeSummaryPayload parses raw JSON, validates it, and returns the generic
// document ready for storage.
func DecodeSummaryPayload(data []byte) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &SummaryPayloadValidationError{
			Message: fmt.Sprintf("Summary payload is not valid JSON: %v", err),
		}
	}
	if err := ValidateSummaryPayload(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

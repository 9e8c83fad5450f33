package model

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	KindMissingFields      = "missing_required_field"
	KindInvalidShape       = "invalid_shape_or_type"
	KindInvalidArrayLength = "invalid_array_length"
	KindInvalidRange       = "invalid_range"
	KindInvalidColumn      = "invalid_column"
	KindCorruptTableState  = "corrupt_table_state"
	KindMalformedLayout    = "malformed_layout"
	KindBadRequest         = "bad_request"
)

// APIError is a request-scoped failure carrying the HTTP status to report.
// Validation errors list every offending field, not just the first.
type APIError struct {
	Kind    string   `json:"kind"`
	Status  int      `json:"-"`
	Message string   `json:"detail"`
	Fields  []string `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

func MissingFields(labels []string) *APIError {
	return &APIError{
		Kind:    KindMissingFields,
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Missing required fields: %s.", strings.Join(labels, ", ")),
		Fields:  labels,
	}
}

func InvalidSize(labels []string) *APIError {
	return &APIError{
		Kind:    KindInvalidShape,
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Invalid size for: %s.", strings.Join(labels, ", ")),
		Fields:  labels,
	}
}

func InvalidArrayLength(want, got int) *APIError {
	return &APIError{
		Kind:    KindInvalidArrayLength,
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Invalid array length: expected %d elements, got %d.", want, got),
	}
}

func InvalidRange(start, end int64) *APIError {
	return &APIError{
		Kind:    KindInvalidRange,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Invalid range: end (%d) is less than start (%d).", end, start),
	}
}

func InvalidColumn(name string) *APIError {
	return &APIError{
		Kind:    KindInvalidColumn,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Invalid column: %q.", name),
		Fields:  []string{name},
	}
}

func CorruptTableState(detail string) *APIError {
	return &APIError{
		Kind:    KindCorruptTableState,
		Status:  http.StatusInternalServerError,
		Message: "Corrupt table state: " + detail,
	}
}

func MalformedLayout(detail string) *APIError {
	return &APIError{
		Kind:    KindMalformedLayout,
		Status:  http.StatusInternalServerError,
		Message: "Malformed source layout: " + detail,
	}
}

func BadRequest(detail string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Status:  http.StatusBadRequest,
		Message: detail,
	}
}

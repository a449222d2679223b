package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"autoprint/internal/models"
	"autoprint/internal/repository/octoprint"
)

// ValidationError carries field-scoped rejections of a schedule submission.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Parameter+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TransportError means the request did not complete or the controller answered
// with an unstructured failure.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: controller http %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// wrapTransport turns any client error into a *TransportError tagged with op.
func wrapTransport(op string, err error) error {
	if err == nil {
		return nil
	}
	te := &TransportError{Op: op, Err: err}
	var se *octoprint.StatusError
	if errors.As(err, &se) {
		te.StatusCode = se.StatusCode
	}
	return te
}

type fieldErrorWire struct {
	Parameter string `json:"parameter"`
	Message   string `json:"message"`
	Msg       string `json:"msg"`
}

type errorsEnvelope struct {
	Errors []fieldErrorWire `json:"errors"`
}

// decodeValidation extracts field errors from a 4xx controller answer.
// It returns nil when the response is not a structured validation failure.
func decodeValidation(err error) *ValidationError {
	var se *octoprint.StatusError
	if !errors.As(err, &se) {
		return nil
	}
	if se.StatusCode < http.StatusBadRequest || se.StatusCode >= http.StatusInternalServerError {
		return nil
	}
	var env errorsEnvelope
	if json.Unmarshal(se.Body, &env) != nil || len(env.Errors) == 0 {
		return nil
	}
	ve := &ValidationError{Errors: make([]models.FieldError, 0, len(env.Errors))}
	for _, w := range env.Errors {
		msg := w.Message
		if msg == "" {
			msg = w.Msg
		}
		ve.Errors = append(ve.Errors, models.FieldError{Parameter: w.Parameter, Message: msg})
	}
	return ve
}

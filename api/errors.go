package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for request binding.
var (
	ErrBindPath  = errors.New("bind path")
	ErrBindQuery = errors.New("bind query")
)

// Parameter value errors reported by binding.
var (
	ErrMissing     = errors.New("is required")
	ErrNotInteger  = errors.New("must be an integer")
	ErrNotNumber   = errors.New("must be a number")
	ErrNotBoolean  = errors.New("must be a boolean")
	ErrOutOfRange  = errors.New("is out of range")
	ErrUnsupported = errors.New("has an unsupported type")
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is an RFC 9457 problem details response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title,omitempty"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// ValidationError describes a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ParamError reports a request parameter that could not be bound.
type ParamError struct {
	In    string
	Name  string
	Value string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s parameter %q %v", e.In, e.Name, e.Err)
}

// Unwrap exposes both the binding sentinel for the parameter location and the
// value error.
func (e *ParamError) Unwrap() []error {
	return []error{bindSentinel(e.In), e.Err}
}

func bindSentinel(in string) error {
	if in == "query" {
		return ErrBindQuery
	}
	return ErrBindPath
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// validationProblem folds binding or constraint failures into a single 400
// problem.
func validationProblem(detail string, errs []ValidationError) *ProblemDetail {
	return &ProblemDetail{
		Type:   "about:blank",
		Title:  "Validation Failed",
		Status: http.StatusBadRequest,
		Detail: detail,
		Errors: errs,
	}
}

// paramProblem converts binding failures into a validation problem.
func paramProblem(perrs []*ParamError) *ProblemDetail {
	errs := make([]ValidationError, 0, len(perrs))
	for _, pe := range perrs {
		ve := ValidationError{
			Field:   pe.In + "." + pe.Name,
			Message: pe.Err.Error(),
		}
		if pe.Value != "" {
			ve.Value = pe.Value
		}
		errs = append(errs, ve)
	}
	return validationProblem(fmt.Sprintf("%d invalid parameter(s)", len(errs)), errs)
}

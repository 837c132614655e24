package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
)

const (
	jsonContentType    = "application/json; charset=utf-8"
	problemContentType = "application/problem+json"
)

// errReplyContract is what clients see when a handler's reply does not match
// what the route declared. The details go to the log, not the wire.
var errReplyContract = &ProblemDetail{
	Type:   "about:blank",
	Title:  http.StatusText(http.StatusInternalServerError),
	Status: http.StatusInternalServerError,
	Detail: "response does not match the declared schema",
}

// envelope maps a reply variant to the status it is sent with and the value
// to serialize. It is the only place a status is chosen for a typed route.
func envelope(r Reply) (int, any) {
	return r.StatusCode(), r
}

// writeReply applies the envelope, checks the body against the schema
// declared for its status, and writes it. Mismatches are configuration
// errors: they are logged and answered with 500.
func writeReply(w http.ResponseWriter, r *http.Request, reply Reply, replies replySet, logger *slog.Logger) {
	if isNilReply(reply) {
		logger.ErrorContext(r.Context(), "handler returned no reply",
			"method", r.Method, "path", r.URL.Path)
		writeErrorResponse(w, errReplyContract)
		return
	}

	status, body := envelope(reply)

	raw, err := encodeReply(body, replies, status)
	if err != nil {
		logger.ErrorContext(r.Context(), "reply rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"type", fmt.Sprintf("%T", body),
			"err", err,
		)
		writeErrorResponse(w, errReplyContract)
		return
	}

	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	w.Write(raw)
}

// ReplyError describes a reply that failed its declared schema.
type ReplyError struct {
	Status int
	Errors []ValidationError
}

func (e *ReplyError) Error() string {
	details := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		details[i] = strings.TrimSpace(ve.Field + " " + ve.Message)
	}
	return fmt.Sprintf("reply for status %d has %d schema violation(s): %s",
		e.Status, len(e.Errors), strings.Join(details, "; "))
}

var (
	errUndeclaredStatus = errors.New("status not declared for route")
	errVariantType      = errors.New("reply type not declared for status")
)

// encodeReply serializes body and validates the encoded form against the
// schema registered for status.
func encodeReply(body any, replies replySet, status int) ([]byte, error) {
	info, ok := replies[status]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errUndeclaredStatus, status)
	}
	if bt := reflect.TypeOf(body); bt != info.typ {
		return nil, fmt.Errorf("%w: %s for %d, declared %s", errVariantType, bt, status, info.typ)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode reply: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}

	var errs []ValidationError
	info.schema.check(decoded, "", &errs)
	if len(errs) > 0 {
		return nil, &ReplyError{Status: status, Errors: errs}
	}
	return raw, nil
}

// writeErrorResponse writes an error as an RFC 9457 problem details response.
func writeErrorResponse(w http.ResponseWriter, err error) {
	var pd *ProblemDetail
	if !errors.As(err, &pd) {
		status := ErrorStatus(err)
		pd = &ProblemDetail{
			Type:   "about:blank",
			Title:  http.StatusText(status),
			Status: status,
			Detail: err.Error(),
		}
	}

	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(pd.Status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(pd)
}

// notFound answers requests that match no registered route.
func notFound(w http.ResponseWriter, r *http.Request) {
	writeErrorResponse(w, &ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(http.StatusNotFound),
		Status: http.StatusNotFound,
		Detail: fmt.Sprintf("Route %s:%s not found", r.Method, r.URL.Path),
	})
}

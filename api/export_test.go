package api

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Test-only exports for internal functions.
var (
	HasParamTags        = hasParamTags
	TagOptions          = tagOptions
	TagContains         = tagContains
	TypeToSchema        = typeToSchema
	ValidateConstraints = validateConstraints
	GenerateOperationID = generateOperationID
	Envelope            = envelope
)

// CheckJSON validates a JSON document against s and returns the violations.
func CheckJSON(s JSONSchema, doc string) []ValidationError {
	dec := json.NewDecoder(bytes.NewReader([]byte(doc)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		panic(err)
	}
	var errs []ValidationError
	s.check(v, "", &errs)
	return errs
}

// WriteProblem exposes the problem writer used by handlers.
func WriteProblem(w http.ResponseWriter, err error) {
	writeErrorResponse(w, err)
}

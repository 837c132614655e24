package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// OpenAPISpec is the top-level OpenAPI 3.1 document.
type OpenAPISpec struct {
	OpenAPI string              `json:"openapi"`
	Info    OpenAPIInfo         `json:"info"`
	Paths   map[string]PathItem `json:"paths"`
}

// OpenAPIInfo holds API metadata.
type OpenAPIInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// PathItem maps HTTP methods to operations.
type PathItem map[string]Operation

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string        `json:"summary,omitempty"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	OperationID string        `json:"operationId,omitempty"`
	Parameters  []Parameter   `json:"parameters,omitempty"`
	Responses   OperationResp `json:"responses"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string     `json:"name"`
	In          string     `json:"in"`
	Description string     `json:"description,omitempty"`
	Required    bool       `json:"required,omitempty"`
	Schema      JSONSchema `json:"schema"`
}

// MediaObj is a media type object with an optional schema.
type MediaObj struct {
	Schema *JSONSchema `json:"schema,omitempty"`
}

// OperationResp maps HTTP status codes to response objects.
type OperationResp map[string]ResponseObj

// ResponseObj describes a single response.
type ResponseObj struct {
	Description string              `json:"description"`
	Content     map[string]MediaObj `json:"content,omitempty"`
}

// Spec generates the full OpenAPI 3.1 specification from registered routes.
func (r *Router) Spec() OpenAPISpec {
	r.mu.Lock()
	defer r.mu.Unlock()

	spec := OpenAPISpec{
		OpenAPI: "3.1.0",
		Info: OpenAPIInfo{
			Title:   r.title,
			Version: r.version,
		},
		Paths: make(map[string]PathItem),
	}

	for i := range r.routes {
		ri := &r.routes[i]
		path := toOpenAPIPath(ri.pattern)

		if spec.Paths[path] == nil {
			spec.Paths[path] = make(PathItem)
		}
		spec.Paths[path][strings.ToLower(ri.method)] = buildOperation(ri)
	}

	return spec
}

// buildOperation creates an Operation from a routeInfo. Every declared reply
// variant becomes a response keyed by its status; routes with parameters also
// document the 400 validation problem.
func buildOperation(ri *routeInfo) Operation {
	op := Operation{
		Summary:     ri.summary,
		Description: ri.desc,
		Tags:        ri.tags,
		OperationID: ri.operationID,
		Parameters:  extractParameters(ri.reqType),
		Responses:   make(OperationResp),
	}
	if op.OperationID == "" {
		op.OperationID = generateOperationID(ri.method, ri.pattern)
	}

	for _, status := range ri.replies.statuses() {
		schema := ri.replies[status].schema
		op.Responses[statusToString(status)] = ResponseObj{
			Description: http.StatusText(status),
			Content: map[string]MediaObj{
				"application/json": {Schema: &schema},
			},
		}
	}

	if len(op.Parameters) > 0 {
		key := statusToString(http.StatusBadRequest)
		if _, declared := op.Responses[key]; !declared {
			problem := typeToSchema(reflect.TypeFor[ProblemDetail]())
			op.Responses[key] = ResponseObj{
				Description: "Validation Failed",
				Content: map[string]MediaObj{
					problemContentType: {Schema: &problem},
				},
			}
		}
	}

	return op
}

// extractParameters builds OpenAPI parameters from param-tagged fields.
func extractParameters(t reflect.Type) []Parameter {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var params []Parameter
	for i := range t.NumField() {
		f := t.Field(i)
		if !isParamField(f) {
			continue
		}

		for _, in := range paramTags {
			name := f.Tag.Get(in)
			if name == "" {
				continue
			}

			p := Parameter{
				Name:        name,
				In:          in,
				Description: f.Tag.Get("doc"),
				Required:    in == "path" || f.Tag.Get("required") == "true",
				Schema:      paramSchema(f),
			}
			params = append(params, p)
		}
	}

	return params
}

// generateOperationID derives an operationId such as "getUsersById" from the
// method and pattern.
func generateOperationID(method, pattern string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for seg := range strings.SplitSeq(pattern, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") {
			seg = "by_" + strings.Trim(seg, "{}.")
		}
		for part := range strings.FieldsFuncSeq(seg, func(r rune) bool { return r == '_' || r == '-' }) {
			b.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return b.String()
}

// toOpenAPIPath converts a ServeMux pattern like "/files/{path...}" to an
// OpenAPI path by dropping wildcard suffixes.
func toOpenAPIPath(pattern string) string {
	return strings.ReplaceAll(pattern, "...", "")
}

// statusToString converts an HTTP status code to its string representation.
func statusToString(code int) string {
	return strconv.Itoa(code)
}

// WriteSpec writes the OpenAPI spec as indented JSON to w.
func (r *Router) WriteSpec(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Spec())
}

// WriteSpecYAML writes the OpenAPI spec as YAML to w. The document goes
// through its JSON form so field names and omitempty rules match WriteSpec.
func (r *Router) WriteSpecYAML(w io.Writer) error {
	raw, err := json.Marshal(r.Spec())
	if err != nil {
		return fmt.Errorf("encode spec: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("convert spec: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write spec: %w", err)
	}
	return enc.Close()
}

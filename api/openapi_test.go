package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/userapi/api"
)

func newSpecRouter() *api.Router {
	r := api.New(api.WithTitle("Items"), api.WithVersion("2.0.0"))
	api.Get(r, "/items/{id}", lookup,
		api.WithSummary("Look up an item"),
		api.WithTags("items"),
		api.WithReplies(itemFound{}, itemGone{}),
	)
	api.Get(r, "/page", func(_ context.Context, _ *pageReq) (plain, error) { return plain{}, nil },
		api.WithOperationID("listPage"),
	)
	return r
}

func TestSpec(t *testing.T) {
	t.Parallel()

	spec := newSpecRouter().Spec()

	assert.Equal(t, "3.1.0", spec.OpenAPI)
	assert.Equal(t, api.OpenAPIInfo{Title: "Items", Version: "2.0.0"}, spec.Info)

	op, ok := spec.Paths["/items/{id}"]["get"]
	require.True(t, ok)
	assert.Equal(t, "Look up an item", op.Summary)
	assert.Equal(t, []string{"items"}, op.Tags)
	assert.Equal(t, "getItemsById", op.OperationID)

	require.Len(t, op.Parameters, 1)
	assert.Equal(t, api.Parameter{
		Name:     "id",
		In:       "path",
		Required: true,
		Schema:   api.JSONSchema{Type: "integer"},
	}, op.Parameters[0])

	require.Contains(t, op.Responses, "200")
	require.Contains(t, op.Responses, "410")
	require.Contains(t, op.Responses, "400")
	assert.Len(t, op.Responses, 3)

	found := op.Responses["200"].Content["application/json"].Schema
	require.NotNil(t, found)
	assert.Equal(t, []string{"name"}, found.Required)

	gone := op.Responses["410"].Content["application/json"].Schema
	require.NotNil(t, gone)
	assert.Contains(t, gone.Properties, "reason")

	problem := op.Responses["400"].Content["application/problem+json"].Schema
	require.NotNil(t, problem)
	assert.Equal(t, []string{"status"}, problem.Required)
}

func TestSpec_parameter_constraints(t *testing.T) {
	t.Parallel()

	op := newSpecRouter().Spec().Paths["/page"]["get"]
	assert.Equal(t, "listPage", op.OperationID)
	require.Len(t, op.Parameters, 3)

	limit := op.Parameters[0]
	assert.Equal(t, "query", limit.In)
	assert.False(t, limit.Required)
	require.NotNil(t, limit.Schema.Minimum)
	require.NotNil(t, limit.Schema.Maximum)
	assert.InDelta(t, 1, *limit.Schema.Minimum, 0)
	assert.InDelta(t, 100, *limit.Schema.Maximum, 0)

	assert.Equal(t, []string{"asc", "desc"}, op.Parameters[1].Schema.Enum)

	code := op.Parameters[2].Schema
	require.NotNil(t, code.MinLength)
	require.NotNil(t, code.MaxLength)
	assert.Equal(t, 2, *code.MinLength)
	assert.Equal(t, 4, *code.MaxLength)
	assert.Equal(t, "^[A-Z]+$", code.Pattern)
}

func TestWriteSpec(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, newSpecRouter().WriteSpec(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "3.1.0", decoded["openapi"])
	assert.Contains(t, decoded["paths"], "/items/{id}")
}

func TestWriteSpecYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, newSpecRouter().WriteSpecYAML(&buf))

	out := buf.String()
	assert.Contains(t, out, "openapi: 3.1.0")
	assert.Contains(t, out, "/items/{id}")
	assert.Contains(t, out, "operationId: getItemsById")
	assert.Regexp(t, `["']410["']:`, out)
}

func TestGenerateOperationID(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		method  string
		pattern string
		want    string
	}{
		"root":          {method: "GET", pattern: "/", want: "get"},
		"collection":    {method: "GET", pattern: "/users", want: "getUsers"},
		"path param":    {method: "GET", pattern: "/users/{id}", want: "getUsersById"},
		"snake segment": {method: "DELETE", pattern: "/api_keys/{key_id}", want: "deleteApiKeysByKeyId"},
		"wildcard":      {method: "GET", pattern: "/files/{path...}", want: "getFilesByPath"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, api.GenerateOperationID(tc.method, tc.pattern))
		})
	}
}

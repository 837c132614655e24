package api_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/userapi/api"
	"github.com/bjaus/userapi/api/apitest"
)

type itemReq struct {
	ID int64 `path:"id"`
}

type lookupReply interface {
	api.Reply
	lookupReply()
}

type itemFound struct {
	Name string `json:"name"`
}

func (itemFound) StatusCode() int { return http.StatusOK }
func (itemFound) lookupReply() {}

type itemGone struct {
	Reason string `json:"reason"`
}

func (itemGone) StatusCode() int { return http.StatusGone }
func (itemGone) lookupReply() {}

// itemTeapot implements lookupReply but is never declared.
type itemTeapot struct{}

func (itemTeapot) StatusCode() int { return http.StatusTeapot }
func (itemTeapot) lookupReply() {}

// itemAlsoFound claims the same status as itemFound.
type itemAlsoFound struct{}

func (itemAlsoFound) StatusCode() int { return http.StatusOK }
func (itemAlsoFound) lookupReply() {}

// itemList encodes a nil slice as null, which its array schema rejects.
type itemList struct {
	Items []string `json:"items"`
}

func (itemList) StatusCode() int { return http.StatusOK }

type plain struct {
	Message string `json:"message"`
}

func (plain) StatusCode() int { return http.StatusOK }

type created struct {
	ID string `json:"id"`
}

func (*created) StatusCode() int { return http.StatusCreated }

func lookup(_ context.Context, req *itemReq) (lookupReply, error) {
	switch req.ID {
	case 1:
		return itemFound{Name: "widget"}, nil
	case 2:
		return itemGone{Reason: "retired"}, nil
	case 3:
		return itemTeapot{}, nil
	case 4:
		return nil, nil
	case 5:
		return nil, api.Error(http.StatusConflict, "locked")
	default:
		return nil, errors.New("boom")
	}
}

func newLookupRouter(t *testing.T) (*apitest.Client, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	r := api.New(api.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	api.Get(r, "/items/{id}", lookup, api.WithReplies(itemFound{}, itemGone{}))
	return apitest.NewClient(t, r), &logs
}

func TestGet_reply_variants(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path       string
		wantStatus int
		wantType   string
		wantBody   string
		wantLog    string
	}{
		"declared 200 variant": {
			path:       "/items/1",
			wantStatus: http.StatusOK,
			wantType:   "application/json; charset=utf-8",
			wantBody:   `{"name":"widget"}`,
		},
		"declared 410 variant": {
			path:       "/items/2",
			wantStatus: http.StatusGone,
			wantType:   "application/json; charset=utf-8",
			wantBody:   `{"reason":"retired"}`,
		},
		"undeclared variant is a contract violation": {
			path:       "/items/3",
			wantStatus: http.StatusInternalServerError,
			wantType:   "application/problem+json",
			wantLog:    "reply rejected",
		},
		"nil reply is a contract violation": {
			path:       "/items/4",
			wantStatus: http.StatusInternalServerError,
			wantType:   "application/problem+json",
			wantLog:    "handler returned no reply",
		},
		"status error from handler": {
			path:       "/items/5",
			wantStatus: http.StatusConflict,
			wantType:   "application/problem+json",
		},
		"plain error from handler": {
			path:       "/items/6",
			wantStatus: http.StatusInternalServerError,
			wantType:   "application/problem+json",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, logs := newLookupRouter(t)
			resp := apitest.Get[map[string]any](t, c, tc.path)

			assert.Equal(t, tc.wantStatus, resp.Status)
			assert.Equal(t, tc.wantType, resp.Headers.Get("Content-Type"))
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, string(resp.Raw))
			}
			if tc.wantLog != "" {
				assert.Contains(t, logs.String(), tc.wantLog)
			}
		})
	}
}

func TestGet_concrete_reply_declares_itself(t *testing.T) {
	t.Parallel()

	r := api.New()
	api.Get(r, "/hello", func(_ context.Context, _ *struct{}) (plain, error) {
		return plain{Message: "hi"}, nil
	})
	api.Get(r, "/made", func(_ context.Context, _ *struct{}) (*created, error) {
		return &created{ID: "7"}, nil
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Get[plain](t, c, "/hello")
	assert.Equal(t, http.StatusOK, resp.Status)
	require.NotNil(t, resp.Body)
	assert.Equal(t, "hi", resp.Body.Message)

	made := apitest.Get[created](t, c, "/made")
	assert.Equal(t, http.StatusCreated, made.Status)
	require.NotNil(t, made.Body)
	assert.Equal(t, "7", made.Body.ID)
}

func TestGet_body_failing_schema_is_rejected(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	r := api.New(api.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	api.Get(r, "/list", func(_ context.Context, _ *struct{}) (itemList, error) {
		return itemList{}, nil
	})

	c := apitest.NewClient(t, r)
	resp := apitest.Get[api.ProblemDetail](t, c, "/list")

	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	require.NotNil(t, resp.Body)
	assert.Equal(t, "response does not match the declared schema", resp.Body.Detail)
	assert.Contains(t, logs.String(), "schema violation")
}

func TestGet_registration_errors_panic(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts    []api.RouteOption
		wantMsg string
	}{
		"interface response without replies": {
			wantMsg: "needs WithReplies",
		},
		"duplicate status": {
			opts:    []api.RouteOption{api.WithReplies(itemFound{}, itemAlsoFound{})},
			wantMsg: "both claim status 200",
		},
		"variant outside the reply set": {
			opts:    []api.RouteOption{api.WithReplies(itemFound{}, plain{})},
			wantMsg: "does not implement",
		},
		"nil variant": {
			opts:    []api.RouteOption{api.WithReplies(nil)},
			wantMsg: "nil reply variant",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := api.New()
			defer func() {
				rec := recover()
				require.NotNil(t, rec)
				assert.Contains(t, rec, tc.wantMsg)
			}()
			api.Get(r, "/items/{id}", lookup, tc.opts...)
		})
	}
}

type guardedReq struct {
	Name string `query:"name"`
}

func (g *guardedReq) Validate() error {
	if g.Name == "admin" {
		return api.Error(http.StatusForbidden, "reserved name")
	}
	return nil
}

func TestGet_SelfValidator(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	r := api.New()
	api.Get(r, "/greet", func(_ context.Context, req *guardedReq) (plain, error) {
		calls.Add(1)
		return plain{Message: "hello " + req.Name}, nil
	})
	c := apitest.NewClient(t, r)

	ok := apitest.Get[plain](t, c, "/greet?name=bob")
	assert.Equal(t, http.StatusOK, ok.Status)
	require.NotNil(t, ok.Body)
	assert.Equal(t, "hello bob", ok.Body.Message)

	denied := apitest.Get[api.ProblemDetail](t, c, "/greet?name=admin")
	assert.Equal(t, http.StatusForbidden, denied.Status)
	require.NotNil(t, denied.Body)
	assert.Equal(t, "reserved name", denied.Body.Detail)

	assert.Equal(t, int32(1), calls.Load())
}

func TestEnvelope(t *testing.T) {
	t.Parallel()

	status, body := api.Envelope(itemGone{Reason: "x"})
	assert.Equal(t, http.StatusGone, status)
	assert.Equal(t, itemGone{Reason: "x"}, body)
}

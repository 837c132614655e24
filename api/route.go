package api

import (
	"net/http"
	"reflect"
)

// routeInfo holds metadata for a registered route, used for both
// request dispatch and OpenAPI spec generation.
type routeInfo struct {
	method      string
	pattern     string
	summary     string
	desc        string
	tags        []string
	operationID string

	reqType  reflect.Type
	respType reflect.Type

	// variants as declared with WithReplies; resolved into replies at
	// registration.
	variants []Reply
	replies  replySet

	handler http.Handler
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeInfo)

// WithSummary sets the OpenAPI summary for the route.
func WithSummary(s string) RouteOption {
	return func(ri *routeInfo) {
		ri.summary = s
	}
}

// WithDescription sets the OpenAPI description for the route.
func WithDescription(d string) RouteOption {
	return func(ri *routeInfo) {
		ri.desc = d
	}
}

// WithTags adds OpenAPI tags to the route.
func WithTags(tags ...string) RouteOption {
	return func(ri *routeInfo) {
		ri.tags = append(ri.tags, tags...)
	}
}

// WithOperationID sets a custom OpenAPI operationId.
func WithOperationID(id string) RouteOption {
	return func(ri *routeInfo) {
		ri.operationID = id
	}
}

// WithReplies declares the reply variants a handler may return. Each variant
// contributes the schema for its status code. Required when the handler's
// response type is an interface; a concrete response type declares itself.
func WithReplies(variants ...Reply) RouteOption {
	return func(ri *routeInfo) {
		ri.variants = append(ri.variants, variants...)
	}
}

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
)

// Registrar is the interface accepted by the registration functions.
type Registrar interface {
	addRoute(ri routeInfo)
	getLogger() *slog.Logger
}

func (r *Router) getLogger() *slog.Logger { return r.logger }

// register is the internal generic registration function. Configuration
// errors panic at startup rather than surfacing per request.
func register[Req any, Resp Reply](reg Registrar, method, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	ri := routeInfo{
		method:   method,
		pattern:  pattern,
		reqType:  reflect.TypeFor[Req](),
		respType: reflect.TypeFor[Resp](),
	}

	for _, opt := range opts {
		opt(&ri)
	}

	replies, err := resolveReplies(ri.respType, ri.variants)
	if err != nil {
		panic(fmt.Sprintf("api: %s %s: %v", method, pattern, err))
	}
	ri.replies = replies

	ri.handler = buildHandler(h, ri.replies, reg.getLogger())

	reg.addRoute(ri)
}

// buildHandler wraps a typed Handler into an http.Handler.
func buildHandler[Req any, Resp Reply](h Handler[Req, Resp], replies replySet, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest[Req](r)
		if err != nil {
			writeErrorResponse(w, err)
			return
		}

		if err := validateConstraints(req); err != nil {
			writeErrorResponse(w, err)
			return
		}

		if sv, ok := any(req).(SelfValidator); ok {
			if err := sv.Validate(); err != nil {
				writeErrorResponse(w, err)
				return
			}
		}

		resp, err := h(r.Context(), req)
		if err != nil {
			writeErrorResponse(w, err)
			return
		}

		writeReply(w, r, resp, replies, logger)
	})
}

// Get registers a GET handler.
func Get[Req any, Resp Reply](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodGet, pattern, h, opts...)
}

// Package api is the typed route layer behind the user service. Handler types
// are the source of truth: request parameters and every possible response body
// are Go types, and the package derives parameter binding, validation, response
// schemas, and the OpenAPI 3.1 document from them.
//
// Handlers return a reply variant rather than writing to the wire:
//
//	type Handler[Req any, Resp Reply] func(ctx context.Context, req *Req) (Resp, error)
//
// A Reply reports the single status code its type is sent with. A route whose
// handler can answer in more than one shape returns a sealed interface and
// declares its variants at registration:
//
//	type LookupReply interface {
//	    api.Reply
//	    lookupReply()
//	}
//
//	api.Get(r, "/things/{id}", lookup, api.WithReplies(Found{}, Missing{}))
//
// After the handler returns, one envelope step maps the variant to its status
// and body, checks the body against the schema declared for that status, and
// serializes it. Parameters that fail to bind or violate a constraint tag are
// rejected with an RFC 9457 problem before the handler runs.
package api

package api

import (
	"context"
)

// Reply is a response variant. The status code belongs to the variant's type,
// so a body can only ever be sent with the status its type declares.
type Reply interface {
	StatusCode() int
}

// Handler is the core typed handler signature. The package owns
// serialization; handlers never see http.ResponseWriter or *http.Request.
type Handler[Req any, Resp Reply] func(ctx context.Context, req *Req) (Resp, error)

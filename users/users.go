// Package users serves the user lookup route.
package users

import (
	"context"
	"net/http"

	"github.com/bjaus/userapi/api"
)

// GetUserRequest carries the validated path parameter.
type GetUserRequest struct {
	ID int64 `path:"id" doc:"User identifier"`
}

// User is the public user representation.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GetUserReply is the closed set of replies for a user lookup: Found or
// Missing.
type GetUserReply interface {
	api.Reply
	getUserReply()
}

// Found is sent with 200.
type Found struct {
	User User `json:"user"`
}

// StatusCode implements api.Reply.
func (Found) StatusCode() int { return http.StatusOK }

func (Found) getUserReply() {}

// Missing is sent with 404.
type Missing struct {
	Message string `json:"message"`
}

// StatusCode implements api.Reply.
func (Missing) StatusCode() int { return http.StatusNotFound }

func (Missing) getUserReply() {}

var tom = User{ID: 1, Name: "Tom"}

// GetUser answers even ids (zero and negatives included) with the fixed
// user and odd ids with a not-found message. The id only decides parity.
func GetUser(_ context.Context, req *GetUserRequest) (GetUserReply, error) {
	if req.ID%2 == 0 {
		return Found{User: tom}, nil
	}
	return Missing{Message: "Not Found"}, nil
}

// Register mounts the user routes on reg.
func Register(reg api.Registrar) {
	api.Get(reg, "/users/{id}", GetUser,
		api.WithSummary("Get user by ID"),
		api.WithDescription("Returns the user for even ids and a not-found message for odd ids."),
		api.WithTags("users"),
		api.WithReplies(Found{}, Missing{}),
	)
}

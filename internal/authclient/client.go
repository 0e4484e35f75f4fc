// Package authclient is the portal's authentication boundary: the session
// store talks to it and never cares whether credentials are checked by the
// embassy API or by the built-in mock backing set.
package authclient

import (
	"context"
	"errors"

	"github.com/embaixada-angola/studentportal/internal/domain/user"
)

// ErrInvalidCredentials is the only failure a caller is expected to branch
// on; everything else is a backend fault.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Result is what a successful login or registration yields.
type Result struct {
	User  user.User
	Token string
}

type Client interface {
	Login(ctx context.Context, email, password string) (Result, error)
	Register(ctx context.Context, req user.RegisterRequest) (Result, error)
	Update(ctx context.Context, userID string, upd user.Update) error
}

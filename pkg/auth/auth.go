// Package auth is the login boundary of the pipeline editor. The editor only needs to know
// whether a login succeeded and who the user is; everything else is owned by the backend.
package auth

import (
	"context"

	"github.com/pkg/errors"
)

// ErrMissingCredentials is returned when the email or the password is empty.
var ErrMissingCredentials = errors.New("email and password are required")

// Credentials are submitted by the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the logged-in user.
type User struct {
	Email string `json:"email"`
	UID   string `json:"uid"`
	Token string `json:"token,omitempty"`
}

// Result is the answer of the backend to a login attempt. A rejected login is a Result with
// Success set to false, not an error.
type Result struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

// Authenticator checks credentials.
type Authenticator interface {
	// Login returns an error only when the backend could not be reached or answered garbage.
	Login(ctx context.Context, creds Credentials) (Result, error)
}

func (c Credentials) validate() error {
	if c.Email == "" || c.Password == "" {
		return ErrMissingCredentials
	}

	return nil
}

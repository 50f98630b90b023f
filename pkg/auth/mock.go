package auth

import (
	"context"
	"time"
)

// Credentials and identity accepted by a MockAuthenticator built with NewMockAuthenticator.
const (
	MockEmail    = "qwerty"
	MockPassword = "asd"
	MockUID      = "user-abc-123"
	MockToken    = "mock-jwt-token"
)

// MockAuthenticator accepts a single pair of credentials after a simulated network delay.
type MockAuthenticator struct {
	Delay    time.Duration
	Email    string
	Password string
}

// NewMockAuthenticator returns a mock accepting MockEmail and MockPassword after one second.
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{
		Delay:    time.Second,
		Email:    MockEmail,
		Password: MockPassword,
	}
}

func (m *MockAuthenticator) Login(ctx context.Context, creds Credentials) (Result, error) {
	if err := creds.validate(); err != nil {
		return Result{}, err
	}

	timer := time.NewTimer(m.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-timer.C:
	}

	if creds.Email != m.Email || creds.Password != m.Password {
		return Result{Success: false, Message: "Invalid credentials provided."}, nil
	}

	return Result{
		Success: true,
		User:    &User{Email: creds.Email, UID: MockUID, Token: MockToken},
	}, nil
}

var _ Authenticator = (*MockAuthenticator)(nil)

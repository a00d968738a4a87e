package service_test

import (
	"errors"
	"strings"
	"testing"

	"git.sr.ht/~jakintosh/grant/internal/service"
	"git.sr.ht/~jakintosh/grant/internal/testutil"
)

func TestPasswordGrant_Success(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	env.RegisterTestUser(t, "admin@example.com", "hunter2", "some", "test", "scopes")

	// valid credentials produce a signed token for the subject
	token, err := env.Service.PasswordGrant(service.GrantRequest{
		Username:  "admin@example.com",
		Password:  "hunter2",
		GrantType: "password",
	})
	if err != nil {
		t.Fatalf("PasswordGrant failed: %v", err)
	}
	if token.Subject() != "admin@example.com" {
		t.Errorf("subject = %s, want admin@example.com", token.Subject())
	}
	if token.Encoded() == "" {
		t.Error("expected non-empty encoded token")
	}
}

func TestPasswordGrant_ScopeOrderPreserved(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	env.RegisterTestUser(t, "admin@example.com", "hunter2", "zeta", "alpha", "mid")

	// entitled scopes flow into the token in stored order
	token, err := env.Service.PasswordGrant(service.GrantRequest{
		Username:  "admin@example.com",
		Password:  "hunter2",
		GrantType: "password",
	})
	if err != nil {
		t.Fatalf("PasswordGrant failed: %v", err)
	}
	if got := strings.Join(token.Scope(), " "); got != "zeta alpha mid" {
		t.Errorf("scope = %q, want %q", got, "zeta alpha mid")
	}
}

func TestPasswordGrant_WrongPassword(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	env.RegisterTestUser(t, "admin@example.com", "hunter2")

	_, err := env.Service.PasswordGrant(service.GrantRequest{
		Username:  "admin@example.com",
		Password:  "incorrect",
		GrantType: "password",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordGrant_UnknownUser(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	_, err := env.Service.PasswordGrant(service.GrantRequest{
		Username:  "admin@example.invalid",
		Password:  "password",
		GrantType: "password",
	})
	if !errors.Is(err, service.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestPasswordGrant_UnsupportedGrantType(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	env.RegisterTestUser(t, "admin@example.com", "hunter2")

	_, err := env.Service.PasswordGrant(service.GrantRequest{
		Username:  "admin@example.com",
		Password:  "hunter2",
		GrantType: "client_credentials",
	})
	if !errors.Is(err, service.ErrUnsupportedGrant) {
		t.Errorf("expected ErrUnsupportedGrant, got %v", err)
	}
}

func TestPasswordGrant_MissingFields(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// setup env
	env.RegisterTestUser(t, "admin@example.com", "hunter2")

	// table-driven test for missing required fields
	tests := []struct {
		name string
		req  service.GrantRequest
	}{
		{"missing username", service.GrantRequest{Password: "hunter2", GrantType: "password"}},
		{"missing password", service.GrantRequest{Username: "admin@example.com", GrantType: "password"}},
		{"missing grant_type", service.GrantRequest{Username: "admin@example.com", Password: "hunter2"}},
		{"empty request", service.GrantRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Service.PasswordGrant(tt.req)
			if !errors.Is(err, service.ErrMissingField) {
				t.Errorf("expected ErrMissingField, got %v", err)
			}
		})
	}
}

func TestPasswordGrant_FieldCheckRunsBeforeGrantType(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	// a missing field wins over a bad grant type: gates run in order
	_, err := env.Service.PasswordGrant(service.GrantRequest{
		Username:  "admin@example.com",
		GrantType: "invalid",
	})
	if !errors.Is(err, service.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}

package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/grant/internal/service"
	"git.sr.ht/~jakintosh/grant/internal/testutil"
)

func TestRefresh_ReissuesIdentityAndScope(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	old, err := env.Signer.Issue("admin@example.com", []string{"some", "test", "scopes"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	token, err := env.Service.Refresh(old.Encoded())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	// identity and scope carry over unchanged
	if token.Subject() != old.Subject() {
		t.Errorf("subject = %s, want %s", token.Subject(), old.Subject())
	}
	if strings.Join(token.Scope(), " ") != strings.Join(old.Scope(), " ") {
		t.Errorf("scope = %v, want %v", token.Scope(), old.Scope())
	}

	// timing claims are fresh
	if token.IssuedAt().Before(old.IssuedAt()) {
		t.Errorf("new issuedAt %v before old %v", token.IssuedAt(), old.IssuedAt())
	}
	if got := token.Expiration().Sub(token.IssuedAt()); got != testutil.TestExpiry {
		t.Errorf("new lifetime = %v, want %v", got, testutil.TestExpiry)
	}
}

func TestRefresh_ExpiredToken(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	now := time.Now()
	expired := env.MintToken(t, "admin@example.com", []string{"some", "test", "scopes"},
		now.Add(-2*testutil.TestExpiry), now.Add(-time.Hour))

	_, err := env.Service.Refresh(expired)
	if !errors.Is(err, service.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRefresh_MalformedToken(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	_, err := env.Service.Refresh("totally.invalid.token")
	if !errors.Is(err, service.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRefresh_Stateless(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnv(t)

	old, err := env.Signer.Issue("admin@example.com", []string{"a"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// the presented token stays valid: refresh holds no server-side state
	if _, err := env.Service.Refresh(old.Encoded()); err != nil {
		t.Fatalf("first Refresh failed: %v", err)
	}
	if _, err := env.Service.Refresh(old.Encoded()); err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}
}

// Package testutil provides test environment setup and utilities for internal package tests.
package testutil

import (
	"net/http"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/grant/internal/api"
	"git.sr.ht/~jakintosh/grant/internal/database"
	"git.sr.ht/~jakintosh/grant/internal/resources"
	"git.sr.ht/~jakintosh/grant/internal/service"
	"git.sr.ht/~jakintosh/grant/internal/tokens"
	"github.com/golang-jwt/jwt/v5"
)

// Fixed token configuration shared by every test environment.
const (
	TestSecret    = "test-signing-secret-0123456789abcdef"
	TestAlgorithm = "HS256"
	TestIssuer    = "auth.grant.test"
	TestAudience  = "grant-api"
	TestOrigin    = "origin.example.com"
	TestExpiry    = time.Hour
)

// TestEnv provides all dependencies needed for testing
type TestEnv struct {
	DB      *database.SQLiteStore
	Service *service.Service
	Signer  *tokens.Signer
	Origins *resources.OriginSet
	Router  http.Handler
}

// SetupTestEnv creates an isolated test environment with in-memory SQLite
func SetupTestEnv(
	t *testing.T,
) *TestEnv {
	t.Helper()

	// create in-memory SQLite database
	db := database.NewSQLiteStore(":memory:", database.PasswordModeTesting)

	signer, err := tokens.NewSigner(
		[]byte(TestSecret),
		TestAlgorithm,
		TestIssuer,
		TestAudience,
		TestExpiry,
	)
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}

	svc := service.New(db.IdentityStore(), signer)

	// setup cleanup
	t.Cleanup(func() {
		_ = db.Close()
	})

	return &TestEnv{
		DB:      db,
		Service: svc,
		Signer:  signer,
		Origins: resources.NewOriginSet(TestOrigin),
	}
}

// SetupTestEnvWithRouter creates TestEnv and configures the API router
func SetupTestEnvWithRouter(
	t *testing.T,
) *TestEnv {
	t.Helper()
	env := SetupTestEnv(t)
	a := api.New(env.Service, env.Origins)
	env.Router = a.Router()
	return env
}

// RegisterTestUser creates a test user in the database
func (env *TestEnv) RegisterTestUser(
	t *testing.T,
	username string,
	password string,
	scopes ...string,
) {
	t.Helper()
	if err := env.DB.InsertIdentity(username, password, scopes); err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
}

// MintToken signs a token directly with the shared test secret, bypassing
// the Signer, so tests can craft expired or otherwise off-nominal claim
// sets the same way an outside holder of the secret would.
func (env *TestEnv) MintToken(
	t *testing.T,
	subject string,
	scope []string,
	issuedAt time.Time,
	expiration time.Time,
) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"iat":   issuedAt.Unix(),
		"nbf":   issuedAt.Unix(),
		"exp":   expiration.Unix(),
		"iss":   TestIssuer,
		"aud":   TestAudience,
		"scope": scope,
	}
	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(TestSecret))
	if err != nil {
		t.Fatalf("failed to mint test token: %v", err)
	}
	return encoded
}

// DecodeToken parses and verifies a token with the shared test secret and
// returns its claim set for assertions.
func DecodeToken(
	t *testing.T,
	encToken string,
) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(
		encToken,
		claims,
		func(tk *jwt.Token) (any, error) { return []byte(TestSecret), nil },
		jwt.WithValidMethods([]string{TestAlgorithm}),
		jwt.WithIssuer(TestIssuer),
		jwt.WithAudience(TestAudience),
	)
	if err != nil {
		t.Fatalf("failed to decode token: %v", err)
	}
	return claims
}

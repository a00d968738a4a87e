// Package service implements the token-issuance logic behind the OAuth2
// endpoints: request validation, credential verification, and token issue
// for the password grant, and token re-issue for the refresh path.
package service

import (
	"errors"

	"git.sr.ht/~jakintosh/grant/internal/tokens"
)

var (
	ErrMissingField       = errors.New("missing required field")
	ErrUnsupportedGrant   = errors.New("unsupported grant type")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrInternal           = errors.New("internal error")
)

// Identity is the verified result of a credential check: the subject
// identifier that becomes the token's `sub` claim, plus the scopes the
// account is entitled to. The service treats it as immutable input.
type Identity struct {
	Subject string
	Scopes  []string
}

// IdentityStore is the external credential-verification capability. A store
// returns ErrAccountNotFound for an unknown username and
// ErrInvalidCredentials for a failed password check; the transport layer
// merges both into one wire error so callers can't enumerate accounts.
type IdentityStore interface {
	VerifyCredentials(username string, password string) (*Identity, error)
}

// Service coordinates credential verification and token issuance. It holds
// no per-request state and is safe under arbitrary request parallelism.
type Service struct {
	identityStore IdentityStore
	signer        *tokens.Signer
}

func New(
	identityStore IdentityStore,
	signer *tokens.Signer,
) *Service {
	return &Service{
		identityStore: identityStore,
		signer:        signer,
	}
}

func (s *Service) Signer() *tokens.Signer {
	return s.signer
}

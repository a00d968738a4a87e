package service

import (
	"errors"
	"fmt"

	"git.sr.ht/~jakintosh/grant/internal/tokens"
)

// GrantRequest carries the already-parsed form fields of a password-grant
// request. Credentials are transient: they are checked once and discarded,
// never persisted or logged.
type GrantRequest struct {
	Username  string
	Password  string
	GrantType string
}

// PasswordGrant runs the ROPC grant gates in strict order: required fields,
// grant type, credential verification, token issue. The first failing gate
// wins and no further checks run.
func (s *Service) PasswordGrant(
	req GrantRequest,
) (
	*tokens.AccessToken,
	error,
) {
	if err := checkRequiredFields(req); err != nil {
		return nil, err
	}

	if req.GrantType != "password" {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedGrant, req.GrantType)
	}

	identity, err := s.identityStore.VerifyCredentials(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: credential check failed: %v", ErrInternal, err)
	}

	token, err := s.signer.Issue(identity.Subject, identity.Scopes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to issue token: %v", ErrInternal, err)
	}

	return token, nil
}

func checkRequiredFields(req GrantRequest) error {
	if req.Username == "" {
		return fmt.Errorf("%w: username", ErrMissingField)
	}
	if req.Password == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	if req.GrantType == "" {
		return fmt.Errorf("%w: grant_type", ErrMissingField)
	}
	return nil
}

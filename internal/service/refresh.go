package service

import (
	"errors"
	"fmt"

	"git.sr.ht/~jakintosh/grant/internal/tokens"
)

// Refresh verifies a presented token and re-issues a new one carrying the
// same subject and scope with fresh timing claims. Verification failures are
// opaque: signature, issuer, audience, and timing problems all surface as
// ErrTokenInvalid, with the detailed reason kept for server logs.
func (s *Service) Refresh(
	encToken string,
) (
	*tokens.AccessToken,
	error,
) {
	old, err := s.signer.Verify(encToken)
	if err != nil {
		if errors.Is(err, tokens.ErrTokenInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
		return nil, fmt.Errorf("%w: token verification failed: %v", ErrInternal, err)
	}

	token, err := s.signer.Issue(old.Subject(), old.Scope())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to re-issue token: %v", ErrInternal, err)
	}

	return token, nil
}

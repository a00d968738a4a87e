package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues and verifies access tokens with one symmetric secret and one
// pinned HMAC algorithm. It is immutable after construction and safe for
// concurrent use.
type Signer struct {
	secret   []byte
	method   jwt.SigningMethod
	parser   *jwt.Parser
	issuer   string
	audience string
	expiry   time.Duration
}

func NewSigner(
	secret []byte,
	algorithm string,
	issuer string,
	audience string,
	expiry time.Duration,
) (
	*Signer,
	error,
) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty signing secret", ErrBadConfig)
	}
	if issuer == "" || audience == "" {
		return nil, fmt.Errorf("%w: issuer and audience are required", ErrBadConfig)
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("%w: non-positive expiry", ErrBadConfig)
	}

	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: algorithm '%s' is not a symmetric method", ErrBadConfig, algorithm)
	}

	// the parser pins the algorithm and checks iss, aud, exp, and nbf in one
	// pass with zero leeway; tokens signed with "none" or any other method
	// never reach the keyfunc
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)

	return &Signer{
		secret:   secret,
		method:   method,
		parser:   parser,
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
	}, nil
}

func (s *Signer) Expiry() time.Duration {
	return s.expiry
}

// Issue signs a new token for the subject with the configured issuer,
// audience, and expiry. Timing claims satisfy nbf == iat and
// exp == iat + expiry exactly.
func (s *Signer) Issue(
	subject string,
	scope []string,
) (
	*AccessToken,
	error,
) {
	if err := checkScope(scope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScope, err)
	}

	now := time.Now().Truncate(time.Second)
	token := &AccessToken{
		issuer:     s.issuer,
		audience:   s.audience,
		subject:    subject,
		scope:      scope,
		issuedAt:   now,
		expiration: now.Add(s.expiry),
	}

	encoded, err := jwt.NewWithClaims(s.method, token.intoClaims()).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %v", err)
	}
	token.encoded = encoded

	return token, nil
}

// Verify checks signature, issuer, audience, and timing claims. Every failure
// collapses into ErrTokenInvalid; the wrapped detail is for server logs only
// and must never reach a response body.
func (s *Signer) Verify(
	encToken string,
) (
	*AccessToken,
	error,
) {
	claims := &accessClaims{}
	parsed, err := s.parser.ParseWithClaims(encToken, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	token := &AccessToken{}
	token.fromClaims(claims, encToken)
	return token, nil
}

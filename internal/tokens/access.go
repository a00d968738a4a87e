package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessClaims is the JWT claim set on the wire. It sits between the JSON
// inside the token and the [AccessToken] Go struct. The scope claim is an
// ordered array; the space-joined form appears only in the response envelope.
type accessClaims struct {
	Scope []string `json:"scope"`
	jwt.RegisteredClaims
}

// ==============================================

// AccessToken is an issued, signed bearer token together with its decoded
// claims. Tokens are immutable once issued and are never stored server-side;
// expiry is enforced purely at verification time.
type AccessToken struct {
	issuer     string
	audience   string
	subject    string
	scope      []string
	issuedAt   time.Time
	expiration time.Time
	encoded    string
}

func (t *AccessToken) Issuer() string        { return t.issuer }
func (t *AccessToken) Audience() string      { return t.audience }
func (t *AccessToken) Subject() string       { return t.subject }
func (t *AccessToken) Scope() []string       { return t.scope }
func (t *AccessToken) IssuedAt() time.Time   { return t.issuedAt }
func (t *AccessToken) Expiration() time.Time { return t.expiration }
func (t *AccessToken) Encoded() string       { return t.encoded }

// ExpiresIn is the token lifetime in whole seconds, for the `expires_in`
// field of the success envelope.
func (t *AccessToken) ExpiresIn() int64 {
	return int64(t.expiration.Sub(t.issuedAt) / time.Second)
}

func (token *AccessToken) intoClaims() *accessClaims {
	return &accessClaims{
		Scope: token.scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    token.issuer,
			Audience:  jwt.ClaimStrings{token.audience},
			Subject:   token.subject,
			IssuedAt:  jwt.NewNumericDate(token.issuedAt),
			NotBefore: jwt.NewNumericDate(token.issuedAt),
			ExpiresAt: jwt.NewNumericDate(token.expiration),
		},
	}
}

func (token *AccessToken) fromClaims(claims *accessClaims, encToken string) {
	token.issuer = claims.Issuer
	if len(claims.Audience) > 0 {
		token.audience = claims.Audience[0]
	}
	token.subject = claims.Subject
	token.scope = claims.Scope
	if claims.IssuedAt != nil {
		token.issuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		token.expiration = claims.ExpiresAt.Time
	}
	token.encoded = encToken
}

// Package tokens builds and verifies the signed bearer tokens issued by the
// grant and refresh endpoints. A single symmetric secret and a single signing
// algorithm are configured at startup; verification never negotiates.
package tokens

import (
	"errors"
	"strings"
)

var (
	ErrBadConfig    = errors.New("bad signer configuration")
	ErrInvalidScope = errors.New("invalid scope")
	ErrTokenInvalid = errors.New("token invalid")
)

// JoinScope produces the wire form of a scope list for the token response
// envelope. It is the inverse of SplitScope for lists whose elements contain
// no spaces, which checkScope guarantees at issue time.
func JoinScope(scope []string) string {
	return strings.Join(scope, " ")
}

// SplitScope recovers a scope list from its space-joined wire form.
// An empty string yields a nil list, not a single empty element.
func SplitScope(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, " ")
}

func checkScope(scope []string) error {
	for _, s := range scope {
		if s == "" {
			return errors.New("scope element is empty")
		}
		if strings.Contains(s, " ") {
			return errors.New("scope element contains a space")
		}
	}
	return nil
}

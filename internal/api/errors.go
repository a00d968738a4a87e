package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"git.sr.ht/~jakintosh/grant/internal/service"
)

// Wire error codes per RFC 6749 §5.2 and RFC 6750 §3.1. The grant-type code
// is the literal `unsupported_grant`, which is what this service has always
// emitted on the wire.
const (
	codeInvalidRequest   = "invalid_request"
	codeInvalidClient    = "invalid_client"
	codeInvalidGrant     = "invalid_grant"
	codeUnsupportedGrant = "unsupported_grant"
	codeInvalidToken     = "invalid_token"
	codeServerError      = "server_error"
)

// ErrorResponse is the RFC 6749 error envelope.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorURI         string `json:"error_uri,omitempty"`
}

// errorVerdict maps a detailed service failure to its public wire shape.
// The mapping is deliberately lossy: unknown-user and wrong-password both
// collapse to invalid_grant, and every token-verification failure collapses
// to invalid_token. The detailed reason is logged, never sent.
func errorVerdict(err error) (status int, code string, description string) {
	switch {
	case errors.Is(err, service.ErrMissingField):
		return http.StatusBadRequest, codeInvalidRequest, "missing required field"
	case errors.Is(err, service.ErrUnsupportedGrant):
		return http.StatusBadRequest, codeUnsupportedGrant, "grant type must be 'password'"
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, codeInvalidGrant, "invalid username or password"
	case errors.Is(err, service.ErrTokenInvalid):
		return http.StatusUnauthorized, codeInvalidToken, "token is invalid or expired"
	default:
		return http.StatusInternalServerError, codeServerError, ""
	}
}

func returnError(w http.ResponseWriter, status int, code string, description string) {
	setCacheHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&ErrorResponse{
		Error:            code,
		ErrorDescription: sanitizeDescription(description),
	})
}

func returnServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logApiErr(r, err.Error())
	status, code, description := errorVerdict(err)
	returnError(w, status, code, description)
}

// sanitizeDescription restricts error_description to the character set
// RFC 6749 §5.2 allows: printable ASCII excluding backslash and double
// quote. Anything else is dropped.
func sanitizeDescription(description string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '\\' || r == '"' {
			return -1
		}
		return r
	}, description)
}

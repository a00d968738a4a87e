package api

import (
	"fmt"
	"mime"
	"net/http"

	"git.sr.ht/~jakintosh/grant/internal/service"
)

// Grant handles the ROPC grant endpoint. Gates run in strict order: request
// shape, origin, then the service's field/grant-type/credential checks. The
// first failing gate produces the response; no later check runs.
func (a *API) Grant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseGrantForm(w, r) {
			return
		}

		origin := r.Header.Get("Origin")
		if !a.origins.Trusted(origin) {
			logApiErr(r, fmt.Sprintf("untrusted origin: '%s'", origin))
			returnError(w, http.StatusUnauthorized, codeInvalidClient, "origin not trusted")
			return
		}

		req := service.GrantRequest{
			Username:  r.PostFormValue("username"),
			Password:  r.PostFormValue("password"),
			GrantType: r.PostFormValue("grant_type"),
		}

		token, err := a.service.PasswordGrant(req)
		if err != nil {
			returnServiceError(w, r, err)
			return
		}

		returnToken(token, w, r)
	}
}

// parseGrantForm accepts form-encoded bodies only. A missing, mismatched, or
// unparseable body fails closed as invalid_request before any other gate.
func parseGrantForm(w http.ResponseWriter, r *http.Request) bool {
	mediatype, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediatype != "application/x-www-form-urlencoded" {
		logApiErr(r, fmt.Sprintf("unsupported content type: '%s'", r.Header.Get("Content-Type")))
		returnError(w, http.StatusBadRequest, codeInvalidRequest, "malformed request body")
		return false
	}

	if err := r.ParseForm(); err != nil {
		logApiErr(r, fmt.Sprintf("bad form body: %v", err))
		returnError(w, http.StatusBadRequest, codeInvalidRequest, "malformed request body")
		return false
	}

	return true
}

package api

import (
	"net/http"
	"strings"
)

// Refresh handles the bearer-token refresh endpoint. There is no Origin
// check here: the endpoint is protected by requiring a valid prior token.
func (a *API) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		encToken, ok := parseBearer(r.Header.Get("Authorization"))
		if !ok {
			logApiErr(r, "malformed authorization header")
			returnError(w, http.StatusBadRequest, codeInvalidRequest, "malformed authorization header")
			return
		}

		token, err := a.service.Refresh(encToken)
		if err != nil {
			returnServiceError(w, r, err)
			return
		}

		returnToken(token, w, r)
	}
}

// parseBearer applies a strict grammar to the Authorization header: the
// exact scheme token `Bearer`, one separating space, one non-empty value,
// nothing else. Near misses (case-folded scheme, trailing space, extra
// tokens) are rejected rather than repaired.
func parseBearer(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

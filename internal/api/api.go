// Package api implements the HTTP surface of the token service: routing,
// request-shape validation, the origin guard on the grant endpoint, and the
// RFC 6749/6750 response discipline.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"git.sr.ht/~jakintosh/grant/internal/service"
	"git.sr.ht/~jakintosh/grant/internal/tokens"
	"github.com/gorilla/mux"
)

// OriginChecker gates the grant endpoint: only requests whose Origin header
// is trusted may submit raw credentials.
type OriginChecker interface {
	Trusted(origin string) bool
}

type API struct {
	service *service.Service
	origins OriginChecker
}

func New(svc *service.Service, origins OriginChecker) *API {
	return &API{
		service: svc,
		origins: origins,
	}
}

func (a *API) Router() http.Handler {
	r := mux.NewRouter()

	s := r.PathPrefix("/api/oauth2").
		Methods("POST").
		Subrouter()
	s.HandleFunc("/ropcf", a.Grant())
	s.HandleFunc("/refresh", a.Refresh())

	return r
}

// TokenResponse is the success envelope shared by both endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// setCacheHeaders attaches the cache-control discipline required on every
// response from the token endpoints, success and error alike.
func setCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Cache-Control", "no-store")
}

func returnToken(token *tokens.AccessToken, w http.ResponseWriter, r *http.Request) {
	setCacheHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(&TokenResponse{
		AccessToken: token.Encoded(),
		TokenType:   "bearer",
		ExpiresIn:   token.ExpiresIn(),
		Scope:       tokens.JoinScope(token.Scope()),
	})
	if err != nil {
		logApiErr(r, "failed to encode token response")
	}
}

func logApiErr(r *http.Request, msg string) {
	log.Printf("%s %s: %s\n", r.Method, r.RequestURI, msg)
}

package api

import (
	"fmt"
	"testing"

	"git.sr.ht/~jakintosh/grant/internal/service"
)

func TestErrorVerdict_MergesCredentialFailures(t *testing.T) {
	t.Parallel()

	// unknown-account and bad-password verdicts must be identical, including
	// wrapped variants, so nothing distinguishes them on the wire
	notFound := fmt.Errorf("%w: admin@example.com", service.ErrAccountNotFound)
	badPassword := service.ErrInvalidCredentials

	s1, c1, d1 := errorVerdict(notFound)
	s2, c2, d2 := errorVerdict(badPassword)

	if s1 != s2 || c1 != c2 || d1 != d2 {
		t.Errorf("verdicts differ: (%d %s %q) vs (%d %s %q)", s1, c1, d1, s2, c2, d2)
	}
	if c1 != codeInvalidGrant {
		t.Errorf("code = %s, want %s", c1, codeInvalidGrant)
	}
}

func TestErrorVerdict_Mapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		code   string
		status int
	}{
		{service.ErrMissingField, codeInvalidRequest, 400},
		{service.ErrUnsupportedGrant, codeUnsupportedGrant, 400},
		{service.ErrAccountNotFound, codeInvalidGrant, 400},
		{service.ErrInvalidCredentials, codeInvalidGrant, 400},
		{service.ErrTokenInvalid, codeInvalidToken, 401},
		{service.ErrInternal, codeServerError, 500},
	}

	for _, tt := range tests {
		status, code, _ := errorVerdict(fmt.Errorf("%w: detail", tt.err))
		if code != tt.code || status != tt.status {
			t.Errorf("errorVerdict(%v) = %d %s, want %d %s", tt.err, status, code, tt.status, tt.code)
		}
	}
}

func TestSanitizeDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain ascii text", "plain ascii text"},
		{`with "quotes" and \slashes\`, "with quotes and slashes"},
		{"control\x00chars\nstripped", "controlcharsstripped"},
		{"uniçodé gone", "uniod gone"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := sanitizeDescription(tt.in); got != tt.want {
			t.Errorf("sanitizeDescription(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseBearer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"bearer abc", "", false},
		{"Basic abc", "", false},
		{"Bearer abc def", "", false},
		{"Bearer abc ", "", false},
		{" Bearer abc", "", false},
	}

	for _, tt := range tests {
		token, ok := parseBearer(tt.header)
		if ok != tt.ok || token != tt.token {
			t.Errorf("parseBearer(%q) = (%q, %v), want (%q, %v)",
				tt.header, token, ok, tt.token, tt.ok)
		}
	}
}

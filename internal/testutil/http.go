package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// HTTPResult captures HTTP response details for test assertions
type HTTPResult struct {
	Code    int
	Error   error
	Headers http.Header
	Body    []byte
}

// Header represents an HTTP header key-value pair
type Header struct {
	Key   string
	Value string
}

// ContentTypeForm returns a header for form-urlencoded content type
func ContentTypeForm() Header {
	return Header{
		Key:   "Content-Type",
		Value: "application/x-www-form-urlencoded",
	}
}

// Origin returns an Origin header with the given value
func Origin(origin string) Header {
	return Header{Key: "Origin", Value: origin}
}

// Authorization returns an Authorization header with the given raw value
func Authorization(value string) Header {
	return Header{Key: "Authorization", Value: value}
}

// Bearer returns a well-formed bearer Authorization header
func Bearer(token string) Header {
	return Authorization("Bearer " + token)
}

// ExpectStatus validates the HTTP status code and fails the test if it doesn't match
func ExpectStatus(
	t *testing.T,
	expected int,
	result HTTPResult,
) {
	t.Helper()
	if result.Error != nil {
		t.Fatalf("request error: %v", result.Error)
	}
	if result.Code != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, result.Code, string(result.Body))
	}
}

// ExpectCacheHeaders validates the no-store discipline required on every
// response from the token endpoints
func ExpectCacheHeaders(
	t *testing.T,
	result HTTPResult,
) {
	t.Helper()
	if got := result.Headers.Get("Pragma"); got != "no-cache" {
		t.Errorf("Pragma = %q, want %q", got, "no-cache")
	}
	if got := result.Headers.Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want %q", got, "no-store")
	}
}

// ExpectOAuthError validates an error response: status >= 400, a non-empty
// JSON body with the wanted error code, an RFC 6749 clean description, and
// the cache headers. Pass an empty wantCode to accept any error code.
func ExpectOAuthError(
	t *testing.T,
	result HTTPResult,
	wantCode string,
) {
	t.Helper()
	if result.Error != nil {
		t.Fatalf("request error: %v", result.Error)
	}
	if result.Code < 400 {
		t.Fatalf("expected error status, got %d. Body: %s", result.Code, string(result.Body))
	}
	if len(result.Body) == 0 {
		t.Fatal("expected non-empty error body")
	}

	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(result.Body, &body); err != nil {
		t.Fatalf("error body is not valid JSON: %v\n%s", err, string(result.Body))
	}
	if body.Error == "" {
		t.Errorf("error body missing 'error' field: %s", string(result.Body))
	}
	if wantCode != "" && body.Error != wantCode {
		t.Errorf("error = %q, want %q", body.Error, wantCode)
	}
	for _, r := range body.ErrorDescription {
		if r < 0x20 || r > 0x7e || r == '\\' || r == '"' {
			t.Errorf("error_description contains forbidden character %q", r)
		}
	}

	ExpectCacheHeaders(t, result)
}

// Post performs a POST request and optionally decodes JSON response
func Post(
	router http.Handler,
	url string,
	body string,
	response any,
	headers ...Header,
) HTTPResult {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	res := httptest.NewRecorder()
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}
	router.ServeHTTP(res, req)

	if response != nil && res.Body.Len() > 0 {
		if err := json.Unmarshal(res.Body.Bytes(), response); err != nil {
			return HTTPResult{
				Code:    res.Code,
				Error:   fmt.Errorf("failed to decode JSON: %v\n%s", err, res.Body.String()),
				Headers: res.Header(),
				Body:    res.Body.Bytes(),
			}
		}
	}

	return HTTPResult{Code: res.Code, Headers: res.Header(), Body: res.Body.Bytes()}
}

// PostForm performs a POST with form-urlencoded body
func PostForm(
	router http.Handler,
	urlPath string,
	values url.Values,
	response any,
	headers ...Header,
) HTTPResult {
	headers = append([]Header{ContentTypeForm()}, headers...)
	return Post(router, urlPath, values.Encode(), response, headers...)
}

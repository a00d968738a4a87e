// grant-client is a small CLI for exercising a running grant server: it
// requests a token with the password grant, or exchanges an existing token
// at the refresh endpoint, and prints the response body.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
)

func main() {
	var (
		baseURL  string
		username string
		password string
		origin   string
		refresh  string
	)

	flag.StringVar(&baseURL, "url", "http://127.0.0.1:9000", "Base URL of the grant server")
	flag.StringVar(&username, "username", "", "Username for the password grant")
	flag.StringVar(&password, "password", "", "Password for the password grant")
	flag.StringVar(&origin, "origin", "", "Origin header value for the password grant")
	flag.StringVar(&refresh, "refresh", "", "Access token to exchange at the refresh endpoint")
	flag.Parse()

	var res *http.Response
	var err error
	switch {
	case refresh != "":
		res, err = requestRefresh(baseURL, refresh)
	case username != "" && password != "":
		res, err = requestGrant(baseURL, username, password, origin)
	default:
		log.Fatal("either --refresh or --username/--password is required")
	}
	if err != nil {
		log.Fatalf("request failed: %v\n", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Fatalf("failed to read response: %v\n", err)
	}

	fmt.Println(strings.TrimSpace(string(body)))
	if res.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func requestGrant(baseURL, username, password, origin string) (*http.Response, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("grant_type", "password")

	req, err := http.NewRequest(
		http.MethodPost,
		baseURL+"/api/oauth2/ropcf",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return http.DefaultClient.Do(req)
}

func requestRefresh(baseURL, token string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/oauth2/refresh", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return http.DefaultClient.Do(req)
}

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"timeshare/pkg/config"
	"timeshare/pkg/supabase"
)

// simsession calls the local API as a given user, signing a session token with SUPABASE_JWT_SECRET.
func main() {
	var (
		method  = flag.String("method", http.MethodGet, "http method")
		path    = flag.String("path", "/trips", "request path, e.g. /bookings/<id>")
		baseURL = flag.String("base-url", "", "api base url (defaults to http://localhost<HTTP_ADDR>)")
		userID  = flag.String("user", "", "profile id to act as (omit for an anonymous request)")
		email   = flag.String("email", "dev@example.com", "email claim")
		payload = flag.String("payload", "", "path to json body file")
	)
	flag.Parse()

	cfg := config.Load()

	if *baseURL == "" {
		if strings.HasPrefix(cfg.HTTPAddr, ":") {
			*baseURL = "http://localhost" + cfg.HTTPAddr
		} else {
			*baseURL = "http://" + cfg.HTTPAddr
		}
	}

	var body io.Reader
	if *payload != "" {
		b, err := os.ReadFile(*payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read payload: %v\n", err)
			os.Exit(2)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(strings.ToUpper(*method), strings.TrimRight(*baseURL, "/")+*path, body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(2)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if *userID != "" {
		tok, err := supabase.SignDevAccessToken(*userID, *email, cfg.Supabase.JWTSecret, cfg.Supabase.Audience, time.Now(), time.Hour)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sign token (is SUPABASE_JWT_SECRET set?): %v\n", err)
			os.Exit(2)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	// Redirects from the access gate are the interesting part; don't follow them.
	c := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := c.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", req.Method, req.URL, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("status=%d\n", resp.StatusCode)
	if loc := resp.Header.Get("Location"); loc != "" {
		fmt.Printf("location=%s\n", loc)
	}
	fmt.Printf("%s\n", string(out))
}

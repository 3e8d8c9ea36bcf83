// Package auth talks to the hosted auth service (GoTrue-compatible API under
// {SupabaseURL}/auth/v1) and reads identity out of the access tokens it
// issues.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/netx"
	"github.com/hashicorp/go-retryablehttp"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the token pair handed out on sign-in or refresh.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != 0 && now.Unix() >= s.ExpiresAt
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Client struct {
	http    *retryablehttp.Client
	authURL string
	anonKey string
	secret  []byte
}

// New builds a client for the auth API of the project at baseURL. jwtSecret
// may be empty, in which case token claims are read without verification.
func New(baseURL, anonKey, jwtSecret string, timeout time.Duration) *Client {
	var secret []byte
	if jwtSecret != "" {
		secret = []byte(jwtSecret)
	}
	return &Client{
		http:    netx.NewClient(timeout, nil),
		authURL: strings.TrimSuffix(baseURL, "/") + "/auth/v1",
		anonKey: anonKey,
		secret:  secret,
	}
}

func (c *Client) headers(accessToken string) map[string]string {
	h := map[string]string{"apikey": c.anonKey}
	if accessToken != "" {
		h["Authorization"] = "Bearer " + accessToken
	}
	return h
}

func (c *Client) session(ctx context.Context, path string, body any) (*Session, error) {
	var s Session
	if err := netx.DoJSON(ctx, c.http, http.MethodPost, c.authURL+path, c.headers(""), body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.session(ctx, "/token?grant_type=password", credentials{Email: email, Password: password})
}

// SignUp registers a user. When the project requires email confirmation no
// tokens are issued and only Session.User is set.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	raw, err := netx.Do(ctx, c.http, http.MethodPost, c.authURL+"/signup", c.headers(""), credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.AccessToken == "" && s.User.ID == "" {
		if err := json.Unmarshal(raw, &s.User); err != nil {
			return nil, fmt.Errorf("unmarshal user: %w", err)
		}
	}
	return &s, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	return c.session(ctx, "/token?grant_type=refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := netx.Do(ctx, c.http, http.MethodPost, c.authURL+"/logout", c.headers(accessToken), nil)
	return err
}

// ResetPassword sends a password recovery email.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	_, err := netx.Do(ctx, c.http, http.MethodPost, c.authURL+"/recover", c.headers(""), map[string]string{"email": email})
	return err
}

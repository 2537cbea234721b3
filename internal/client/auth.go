package client

import (
	"context"
	"log/slog"
)

// Credentials identifies an established session: the bearer token plus the
// signed-in user's canonical id.
type Credentials struct {
	Token  string
	UserID string
}

type sessionWire struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

// Login signs in with username (or email) and password and returns a Client
// bound to the new session.
func Login(ctx context.Context, baseURL, username, password string, logger *slog.Logger) (*Client, Credentials, error) {
	return establish(ctx, baseURL, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, logger)
}

// Register creates an account and returns a Client bound to its first
// session.
func Register(ctx context.Context, baseURL, username, email, password string, logger *slog.Logger) (*Client, Credentials, error) {
	return establish(ctx, baseURL, "/api/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, logger)
}

func establish(ctx context.Context, baseURL, path string, body any, logger *slog.Logger) (*Client, Credentials, error) {
	// Token-less client for the public endpoint.
	boot := New(baseURL, "", logger)
	var sess sessionWire
	if err := boot.do(ctx, "POST", path, body, &sess); err != nil {
		return nil, Credentials{}, err
	}
	creds := Credentials{Token: sess.Token, UserID: formatID(sess.UserID)}
	return New(baseURL, creds.Token, logger), creds, nil
}

// Logout ends the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "POST", "/api/logout", nil, nil)
}

package api

import (
	"context"

	"github.com/sandwipshanto/relevant/internal/models"
)

// AuthResponse carries the credential and identity returned by register/login.
type AuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Msg     string      `json:"msg,omitempty"`
}

// UserResponse wraps endpoints that return the account record.
type UserResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
	Msg     string      `json:"msg,omitempty"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns a fresh credential.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var resp AuthResponse
	body := registerRequest{Email: email, Password: password, Name: name}
	if err := c.do(ctx, "POST", "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := loginRequest{Email: email, Password: password}
	if err := c.do(ctx, "POST", "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CurrentUser resolves the identity behind the stored credential.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var resp UserResponse
	if err := c.get(ctx, "/api/auth/me", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

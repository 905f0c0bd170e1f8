package api

import (
	"context"
)

// AuthURLResponse carries the provider authorization URL for the connect flow.
type AuthURLResponse struct {
	Success bool   `json:"success"`
	AuthURL string `json:"authUrl"`
}

// ConnectionStatusResponse reports the OAuth-linked account state.
type ConnectionStatusResponse struct {
	Success      bool   `json:"success"`
	Connected    bool   `json:"connected"`
	ChannelID    string `json:"channelId,omitempty"`
	ChannelTitle string `json:"channelTitle,omitempty"`
}

// SyncResponse reports the result of a subscription import.
type SyncResponse struct {
	Success            bool   `json:"success"`
	Msg                string `json:"msg,omitempty"`
	SubscriptionsAdded int    `json:"subscriptionsAdded,omitempty"`
}

type callbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}

// YouTubeAuthURL asks the backend for the provider authorization URL.
func (c *Client) YouTubeAuthURL(ctx context.Context) (string, error) {
	var resp AuthURLResponse
	if err := c.get(ctx, "/api/youtube/auth-url", &resp); err != nil {
		return "", err
	}
	return resp.AuthURL, nil
}

// YouTubeCallback completes the connect flow with the authorization code
// captured by the local relay server.
func (c *Client) YouTubeCallback(ctx context.Context, code, state string) error {
	return c.do(ctx, "POST", "/api/youtube/callback", callbackRequest{Code: code, State: state}, nil)
}

// YouTubeStatus reports whether an account is connected.
func (c *Client) YouTubeStatus(ctx context.Context) (*ConnectionStatusResponse, error) {
	var resp ConnectionStatusResponse
	if err := c.get(ctx, "/api/youtube/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// YouTubeSync imports subscriptions from the connected account as followed sources.
func (c *Client) YouTubeSync(ctx context.Context) (*SyncResponse, error) {
	var resp SyncResponse
	if err := c.do(ctx, "POST", "/api/youtube/sync", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// YouTubeDisconnect removes the OAuth connection. Followed sources persist.
func (c *Client) YouTubeDisconnect(ctx context.Context) error {
	return c.do(ctx, "POST", "/api/youtube/disconnect", nil, nil)
}

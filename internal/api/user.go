package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sandwipshanto/relevant/internal/models"
)

// SourcesResponse wraps the followed-channel list returned by source mutations.
type SourcesResponse struct {
	Success bool                   `json:"success"`
	Sources []models.YouTubeSource `json:"youtubeSources"`
	Msg     string                 `json:"msg,omitempty"`
}

// StatsResponse wraps the profile statistics endpoint.
type StatsResponse struct {
	Success bool             `json:"success"`
	Stats   models.UserStats `json:"stats"`
}

type interestsRequest struct {
	Interests models.Interests `json:"interests"`
}

type preferencesRequest struct {
	EmailNotifications bool   `json:"emailNotifications"`
	ContentLanguage    string `json:"contentLanguage"`
	FeedFrequency      string `json:"feedFrequency"`
}

// Profile fetches the full account record.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var resp UserResponse
	if err := c.get(ctx, "/api/user/profile", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateInterests replaces the interest tree.
func (c *Client) UpdateInterests(ctx context.Context, interests models.Interests) (*models.User, error) {
	var resp UserResponse
	if err := c.do(ctx, "PUT", "/api/user/interests", interestsRequest{Interests: interests}, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdatePreferences replaces feed preferences.
func (c *Client) UpdatePreferences(ctx context.Context, prefs models.UserPreferences) (*models.User, error) {
	body := preferencesRequest{
		EmailNotifications: prefs.EmailNotifications,
		ContentLanguage:    prefs.ContentLanguage,
		FeedFrequency:      prefs.FeedFrequency,
	}

	var resp UserResponse
	if err := c.do(ctx, "PUT", "/api/user/preferences", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Stats fetches profile statistics.
func (c *Client) Stats(ctx context.Context) (*models.UserStats, error) {
	var resp StatsResponse
	if err := c.get(ctx, "/api/user/stats", &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// AddYouTubeSource follows a channel and returns the updated source list.
func (c *Client) AddYouTubeSource(ctx context.Context, source models.YouTubeSource) ([]models.YouTubeSource, error) {
	var resp SourcesResponse
	if err := c.do(ctx, "POST", "/api/user/youtube-sources", source, &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

// RemoveYouTubeSource unfollows a channel and returns the updated source list.
func (c *Client) RemoveYouTubeSource(ctx context.Context, channelID string) ([]models.YouTubeSource, error) {
	var resp SourcesResponse
	path := fmt.Sprintf("/api/user/youtube-sources/%s", url.PathEscape(channelID))
	if err := c.do(ctx, "DELETE", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

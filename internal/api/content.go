package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sandwipshanto/relevant/internal/models"
)

// FeedParams selects a feed page.
type FeedParams struct {
	Page         int
	Limit        int
	MinRelevance float64
}

// PageParams selects a page of the saved-content listing.
type PageParams struct {
	Page  int
	Limit int
}

// ContentPage is one page of canonical content records.
type ContentPage struct {
	Items      []models.Content
	Pagination models.Pagination
}

// contentEnvelope defers item decoding so each record can pass through the
// canonicalizing decoder regardless of which backend revision shaped it.
type contentEnvelope struct {
	Success    bool              `json:"success"`
	Content    []json.RawMessage `json:"content"`
	Results    []json.RawMessage `json:"results"`
	Pagination models.Pagination `json:"pagination"`
}

func (e *contentEnvelope) page() *ContentPage {
	raw := e.Content
	if len(raw) == 0 && len(e.Results) > 0 {
		raw = e.Results
	}

	items := make([]models.Content, 0, len(raw))
	for _, r := range raw {
		items = append(items, models.DecodeContentJSON(r))
	}

	return &ContentPage{Items: items, Pagination: e.Pagination}
}

type interactionResponse struct {
	Success     bool                `json:"success"`
	UserContent *models.UserContent `json:"userContent"`
	Msg         string              `json:"msg,omitempty"`
}

type likeRequest struct {
	Liked bool `json:"liked"`
}

type saveRequest struct {
	Saved bool `json:"saved"`
}

// Feed fetches a page of the personalized content feed.
func (c *Client) Feed(ctx context.Context, params FeedParams) (*ContentPage, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.MinRelevance > 0 {
		q.Set("minRelevance", strconv.FormatFloat(params.MinRelevance, 'f', -1, 64))
	}

	var env contentEnvelope
	if err := c.get(ctx, "/api/content/feed?"+q.Encode(), &env); err != nil {
		return nil, err
	}
	return env.page(), nil
}

// Search queries content by text.
func (c *Client) Search(ctx context.Context, query string, page, limit int) (*ContentPage, error) {
	q := url.Values{}
	q.Set("q", query)
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var env contentEnvelope
	if err := c.get(ctx, "/api/content/search?"+q.Encode(), &env); err != nil {
		return nil, err
	}
	return env.page(), nil
}

// Get fetches one content record with its interaction overlay.
func (c *Client) Get(ctx context.Context, id string) (*models.Content, error) {
	var env struct {
		Success     bool                `json:"success"`
		Content     json.RawMessage     `json:"content"`
		UserContent *models.UserContent `json:"userContent"`
	}

	if err := c.get(ctx, "/api/content/"+url.PathEscape(id), &env); err != nil {
		return nil, err
	}

	content := models.DecodeContentJSON(env.Content)
	if content.UserContent == nil {
		content.UserContent = env.UserContent
	}
	return &content, nil
}

// View marks content as viewed, creating the interaction record lazily.
func (c *Client) View(ctx context.Context, id string) (*models.UserContent, error) {
	return c.interact(ctx, id, "view", nil)
}

// Like sets or clears the liked flag.
func (c *Client) Like(ctx context.Context, id string, liked bool) (*models.UserContent, error) {
	return c.interact(ctx, id, "like", likeRequest{Liked: liked})
}

// Save sets or clears the saved flag.
func (c *Client) Save(ctx context.Context, id string, saved bool) (*models.UserContent, error) {
	return c.interact(ctx, id, "save", saveRequest{Saved: saved})
}

// Dismiss removes content from future feed responses. Saved items stay on
// the saved list until also unsaved.
func (c *Client) Dismiss(ctx context.Context, id string) (*models.UserContent, error) {
	return c.interact(ctx, id, "dismiss", nil)
}

// Saved fetches a page of the saved-content listing.
func (c *Client) Saved(ctx context.Context, params PageParams) (*ContentPage, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	var env contentEnvelope
	if err := c.get(ctx, "/api/content/saved/list?"+q.Encode(), &env); err != nil {
		return nil, err
	}
	return env.page(), nil
}

func (c *Client) interact(ctx context.Context, id, action string, body any) (*models.UserContent, error) {
	var resp interactionResponse
	path := fmt.Sprintf("/api/content/%s/%s", url.PathEscape(id), action)
	if err := c.do(ctx, "POST", path, body, &resp); err != nil {
		return nil, err
	}
	return resp.UserContent, nil
}

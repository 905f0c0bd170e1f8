package models

import (
	"encoding/json"
	"time"
)

// User represents the authenticated account as reported by the backend.
type User struct {
	ID          string             `json:"_id"`
	Email       string             `json:"email"`
	Name        string             `json:"name"`
	Interests   Interests          `json:"interests"`
	Sources     []YouTubeSource    `json:"youtubeSources"`
	Preferences UserPreferences    `json:"preferences"`
	Connection  *YouTubeConnection `json:"youtubeConnection,omitempty"`
	LastActive  string             `json:"lastActive"`
	CreatedAt   string             `json:"createdAt"`
}

// YouTubeSource is a followed channel. Distinct from [YouTubeConnection],
// which records the user's own authenticated YouTube account.
type YouTubeSource struct {
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	ChannelURL   string `json:"channelUrl,omitempty"`
	AddedAt      string `json:"addedAt,omitempty"`
}

// YouTubeConnection is the OAuth-linked external account state.
type YouTubeConnection struct {
	Connected    bool   `json:"connected"`
	ChannelID    string `json:"channelId,omitempty"`
	ChannelTitle string `json:"channelTitle,omitempty"`
	ConnectedAt  string `json:"connectedAt,omitempty"`
	LastSyncAt   string `json:"lastSyncAt,omitempty"`
}

// UserPreferences holds per-account feed settings.
type UserPreferences struct {
	EmailNotifications bool    `json:"emailNotifications"`
	ContentLanguage    string  `json:"contentLanguage"`
	FeedFrequency      string  `json:"feedFrequency"` // daily, weekly, realtime
	MaxContentPerDay   int     `json:"maxContentPerDay,omitempty"`
	RelevanceThreshold float64 `json:"relevanceThreshold,omitempty"`
}

// UserStats summarizes account activity for the profile view.
type UserStats struct {
	TotalInterests      int    `json:"totalInterests"`
	TotalYoutubeSources int    `json:"totalYoutubeSources"`
	MemberSince         string `json:"memberSince"`
	LastActive          string `json:"lastActive"`
}

// Interests is the hierarchical interest tree: category -> subcategory -> keywords.
//
// This is the canonical shape. Older accounts carry a flat string list on the
// wire; UnmarshalJSON lifts those into single-keyword categories with default
// priority so the rest of the client only ever sees the tree.
type Interests map[string]InterestCategory

// InterestCategory is one top-level interest with optional subcategories.
type InterestCategory struct {
	Priority      int                            `json:"priority"`
	Keywords      []string                       `json:"keywords"`
	Subcategories map[string]InterestSubcategory `json:"subcategories,omitempty"`
}

// InterestSubcategory is a nested interest refinement.
type InterestSubcategory struct {
	Priority int      `json:"priority"`
	Keywords []string `json:"keywords"`
}

const defaultInterestPriority = 5

func (i *Interests) UnmarshalJSON(data []byte) error {
	// Tree form first
	var tree map[string]InterestCategory
	if err := json.Unmarshal(data, &tree); err == nil {
		*i = tree
		return nil
	}

	// Legacy flat list
	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		lifted := make(Interests, len(flat))
		for _, name := range flat {
			if name == "" {
				continue
			}
			lifted[name] = InterestCategory{
				Priority: defaultInterestPriority,
				Keywords: []string{name},
			}
		}
		*i = lifted
		return nil
	}

	// Null or unrecognized shapes decode to an empty tree rather than failing
	*i = Interests{}
	return nil
}

// AllKeywords flattens the tree into the full keyword list, category keywords first.
func (i Interests) AllKeywords() []string {
	var keywords []string
	for _, cat := range i {
		keywords = append(keywords, cat.Keywords...)
		for _, sub := range cat.Subcategories {
			keywords = append(keywords, sub.Keywords...)
		}
	}
	return keywords
}

// Pagination is the cursor state returned by list endpoints.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalItems  int  `json:"totalItems"`
	HasMore     bool `json:"hasMore"`
}

// ProcessingStatus reports background content-processing jobs on the server.
type ProcessingStatus struct {
	ActiveJobs int    `json:"activeJobs"`
	QueuedJobs int    `json:"queuedJobs"`
	LastUpdate string `json:"lastUpdate"`
}

// ParseTime parses the backend's RFC 3339 timestamps, returning the zero time
// for empty or malformed values.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

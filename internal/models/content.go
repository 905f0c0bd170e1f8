package models

// SourceChannel attributes a content item to its origin channel.
type SourceChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Content is a curated media item. Immutable from the client's perspective:
// fetched, never written.
type Content struct {
	ID             string        `json:"_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	URL            string        `json:"url"`
	Source         string        `json:"source"` // youtube, rss, web, article
	SourceID       string        `json:"sourceId"`
	SourceChannel  SourceChannel `json:"sourceChannel"`
	Thumbnail      string        `json:"thumbnail"`
	PublishedAt    string        `json:"publishedAt"`
	CreatedAt      string        `json:"createdAt"`
	Duration       int           `json:"duration"`
	Tags           []string      `json:"tags"`
	Category       string        `json:"category"`
	Summary        string        `json:"summary"`
	Highlights     []string      `json:"highlights"`
	KeyPoints      []string      `json:"keyPoints"`
	RelevantTopics []string      `json:"relevantTopics"`
	Processed      bool          `json:"processed"`

	// UserContent is the per-user interaction overlay, present when the
	// backend joined it into the content fetch.
	UserContent *UserContent `json:"userContent,omitempty"`
}

// UserContent is a per-user interaction record overlaying a [Content] item.
// Its identity is the (UserID, ContentID) pair; the client only ever sees it
// nested inside a content fetch.
type UserContent struct {
	ID                     string   `json:"_id"`
	UserID                 string   `json:"userId"`
	ContentID              string   `json:"contentId"`
	RelevanceScore         float64  `json:"relevanceScore"`
	MatchedInterests       []string `json:"matchedInterests"`
	PersonalizedSummary    string   `json:"personalizedSummary"`
	PersonalizedHighlights []string `json:"personalizedHighlights"`
	Viewed                 bool     `json:"viewed"`
	ViewedAt               string   `json:"viewedAt,omitempty"`
	Liked                  bool     `json:"liked"`
	Saved                  bool     `json:"saved"`
	Dismissed              bool     `json:"dismissed"`
	CreatedAt              string   `json:"createdAt"`
}

// Saved reports whether the item is saved, tolerating a missing overlay.
func (c Content) IsSaved() bool {
	return c.UserContent != nil && c.UserContent.Saved
}

// IsLiked reports whether the item is liked, tolerating a missing overlay.
func (c Content) IsLiked() bool {
	return c.UserContent != nil && c.UserContent.Liked
}

// IsViewed reports whether the item was viewed, tolerating a missing overlay.
func (c Content) IsViewed() bool {
	return c.UserContent != nil && c.UserContent.Viewed
}

// Relevance returns the personalized relevance score, zero without an overlay.
func (c Content) Relevance() float64 {
	if c.UserContent == nil {
		return 0
	}
	return c.UserContent.RelevanceScore
}

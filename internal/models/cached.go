package models

import (
	"fmt"
	"time"
)

var _ Model = (*CachedContent)(nil)

// CachedContent is a locally persisted copy of a normalized content record,
// flattened together with its user-interaction overlay so the feed and saved
// list stay browsable offline.
type CachedContent struct {
	id          string
	sequence    int
	remoteID    string
	content     Content
	relevance   float64
	viewed      bool
	liked       bool
	saved       bool
	dismissed   bool
	publishedAt time.Time
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewCachedContent builds a cache entity from a canonical content record.
// The local ID is assigned by the repository on Create.
func NewCachedContent(sequence int, content Content) *CachedContent {
	now := time.Now()
	cc := &CachedContent{
		sequence:    sequence,
		remoteID:    content.ID,
		content:     content,
		publishedAt: ParseTime(content.PublishedAt),
		createdAt:   now,
		updatedAt:   now,
	}

	if uc := content.UserContent; uc != nil {
		cc.relevance = uc.RelevanceScore
		cc.viewed = uc.Viewed
		cc.liked = uc.Liked
		cc.saved = uc.Saved
		cc.dismissed = uc.Dismissed
	}

	return cc
}

func (c *CachedContent) ID() string            { return c.id }
func (c *CachedContent) Sequence() int         { return c.sequence }
func (c *CachedContent) RemoteID() string      { return c.remoteID }
func (c *CachedContent) Content() Content      { return c.content }
func (c *CachedContent) Relevance() float64    { return c.relevance }
func (c *CachedContent) Viewed() bool          { return c.viewed }
func (c *CachedContent) Liked() bool           { return c.liked }
func (c *CachedContent) Saved() bool           { return c.saved }
func (c *CachedContent) Dismissed() bool       { return c.dismissed }
func (c *CachedContent) PublishedAt() time.Time { return c.publishedAt }
func (c *CachedContent) CreatedAt() time.Time  { return c.createdAt }
func (c *CachedContent) UpdatedAt() time.Time  { return c.updatedAt }
func (c *CachedContent) DeletedAt() *time.Time { return c.deletedAt }

func (c *CachedContent) SetID(id string)             { c.id = id }
func (c *CachedContent) SetSequence(seq int)         { c.sequence = seq }
func (c *CachedContent) SetCreatedAt(t time.Time)    { c.createdAt = t }
func (c *CachedContent) SetUpdatedAt(t time.Time)    { c.updatedAt = t }
func (c *CachedContent) SetDeletedAt(t *time.Time)   { c.deletedAt = t }
func (c *CachedContent) SetPublishedAt(t time.Time)  { c.publishedAt = t }

// SetFlags overwrites the interaction overlay, typically after a mutation
// round trip confirmed new server state.
func (c *CachedContent) SetFlags(viewed, liked, saved, dismissed bool) {
	c.viewed = viewed
	c.liked = liked
	c.saved = saved
	c.dismissed = dismissed
}

// SetRelevance updates the personalized relevance score.
func (c *CachedContent) SetRelevance(score float64) { c.relevance = score }

// SetContent replaces the canonical record, keeping the remote identity.
func (c *CachedContent) SetContent(content Content) {
	c.content = content
	c.remoteID = content.ID
}

// Validate checks invariants before persistence.
func (c *CachedContent) Validate() error {
	if c.id == "" {
		return fmt.Errorf("cached content missing local ID")
	}
	if c.remoteID == "" || c.remoteID == UnknownID {
		return fmt.Errorf("cached content missing remote ID")
	}
	if c.content.Source == "" {
		return fmt.Errorf("cached content missing source")
	}
	return nil
}

package repositories

import (
	"fmt"
	"strings"

	"github.com/sandwipshanto/relevant/internal/models"
)

// ContentCacheAdapter implements tasks.ContentCacher using ContentRepository.
//
// Feed refreshes push every fetched item through here. Existing items are
// updated in place so overlay flags track server state; duplicate inserts
// racing on the (source, remote_id) constraint are silently ignored.
type ContentCacheAdapter struct {
	repo *ContentRepository
}

// NewContentCacheAdapter creates a new ContentCacheAdapter with the given repository
func NewContentCacheAdapter(repo *ContentRepository) *ContentCacheAdapter {
	return &ContentCacheAdapter{repo: repo}
}

// CacheContent stores a normalized content record locally. An item already
// cached under the same (source, remote_id) is refreshed rather than
// duplicated. Only actual failures are returned, not constraint violations.
func (a *ContentCacheAdapter) CacheContent(content models.Content) error {
	if content.ID == "" || content.ID == models.UnknownID {
		return fmt.Errorf("content has no usable remote ID")
	}

	existing, err := a.repo.GetByRemoteID(content.Source, content.ID)
	if err == nil && existing != nil {
		existing.SetContent(content)
		if uc := content.UserContent; uc != nil {
			existing.SetFlags(uc.Viewed, uc.Liked, uc.Saved, uc.Dismissed)
			existing.SetRelevance(uc.RelevanceScore)
		}
		if err := a.repo.Update(existing); err != nil {
			return fmt.Errorf("failed to refresh cached content: %w", err)
		}
		return nil
	}

	item := models.NewCachedContent(0, content)

	err = a.repo.Create(item)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache content: %w", err)
	}

	return nil
}

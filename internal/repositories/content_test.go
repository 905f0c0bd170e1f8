package repositories

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/shared"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

func sampleContent(remoteID string) models.Content {
	return models.Content{
		ID:          remoteID,
		Title:       "Understanding Go Channels",
		Description: "A walkthrough of channel semantics",
		URL:         "https://example.com/watch?v=" + remoteID,
		Source:      "youtube",
		SourceID:    remoteID,
		SourceChannel: models.SourceChannel{
			ID:   "UC123",
			Name: "Go Time",
		},
		Thumbnail:   "https://example.com/thumb.jpg",
		PublishedAt: "2025-06-15T10:00:00Z",
		Duration:    840,
		Tags:        []string{"go", "concurrency"},
		Category:    "technology",
		Summary:     "Channels, explained",
		Highlights:  []string{"unbuffered blocks", "select fairness"},
		Processed:   true,
	}
}

func TestContentRepository(t *testing.T) {
	t.Run("CreateAndGet", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)

		item := models.NewCachedContent(0, sampleContent("vid-1"))
		if err := repo.Create(item); err != nil {
			t.Fatalf("create: %v", err)
		}
		if item.ID() == "" {
			t.Fatal("create must assign a local ID")
		}
		if item.Sequence() != 1 {
			t.Errorf("first item sequence = %d, want 1", item.Sequence())
		}

		got, err := repo.Get(item.ID())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		content := got.Content()
		if content.Title != "Understanding Go Channels" {
			t.Errorf("title = %q", content.Title)
		}
		if content.SourceChannel.Name != "Go Time" {
			t.Errorf("channel = %q", content.SourceChannel.Name)
		}
		if len(content.Tags) != 2 || content.Tags[0] != "go" {
			t.Errorf("tags = %v", content.Tags)
		}
		if len(content.Highlights) != 2 {
			t.Errorf("highlights = %v", content.Highlights)
		}
		if content.PublishedAt != "2025-06-15T10:00:00Z" {
			t.Errorf("publishedAt = %q", content.PublishedAt)
		}
	})

	t.Run("SequencesIncrement", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)

		for i, remoteID := range []string{"vid-1", "vid-2", "vid-3"} {
			item := models.NewCachedContent(0, sampleContent(remoteID))
			if err := repo.Create(item); err != nil {
				t.Fatal(err)
			}
			if item.Sequence() != i+1 {
				t.Errorf("item %d sequence = %d", i, item.Sequence())
			}
		}
	})

	t.Run("GetByRemoteID", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)

		item := models.NewCachedContent(0, sampleContent("vid-1"))
		repo.Create(item)

		got, err := repo.GetByRemoteID("youtube", "vid-1")
		if err != nil {
			t.Fatalf("get by remote id: %v", err)
		}
		if got.ID() != item.ID() {
			t.Errorf("got %q, want %q", got.ID(), item.ID())
		}

		if _, err := repo.GetByRemoteID("rss", "vid-1"); err == nil {
			t.Error("remote identity is scoped by source")
		}
	})

	t.Run("DuplicateRemoteIDRejected", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)

		if err := repo.Create(models.NewCachedContent(0, sampleContent("vid-1"))); err != nil {
			t.Fatal(err)
		}
		err := repo.Create(models.NewCachedContent(0, sampleContent("vid-1")))
		if err == nil || !strings.Contains(err.Error(), "UNIQUE constraint") {
			t.Errorf("expected unique constraint violation, got %v", err)
		}
	})

	t.Run("UpdateFlags", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)

		item := models.NewCachedContent(0, sampleContent("vid-1"))
		repo.Create(item)

		item.SetFlags(true, true, true, false)
		item.SetRelevance(0.92)
		if err := repo.Update(item); err != nil {
			t.Fatalf("update: %v", err)
		}

		got, err := repo.Get(item.ID())
		if err != nil {
			t.Fatal(err)
		}
		if !got.Saved() || !got.Liked() || !got.Viewed() || got.Dismissed() {
			t.Errorf("flags = viewed=%v liked=%v saved=%v dismissed=%v",
				got.Viewed(), got.Liked(), got.Saved(), got.Dismissed())
		}
		if got.Relevance() != 0.92 {
			t.Errorf("relevance = %v", got.Relevance())
		}
	})

	t.Run("UpdateMissingItem", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)

		item := models.NewCachedContent(1, sampleContent("vid-1"))
		item.SetID("nonexistent")
		if err := repo.Update(item); err == nil {
			t.Error("expected error updating missing item")
		}
	})

	t.Run("SoftDelete", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)

		item := models.NewCachedContent(0, sampleContent("vid-1"))
		repo.Create(item)

		if err := repo.Delete(item.ID()); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.Get(item.ID()); err == nil {
			t.Error("deleted item must not be retrievable")
		}
		if err := repo.Delete(item.ID()); err == nil {
			t.Error("double delete must fail")
		}

		// Row still exists, only hidden.
		var count int
		db.QueryRow("SELECT COUNT(*) FROM contents WHERE id = ?", item.ID()).Scan(&count)
		if count != 1 {
			t.Errorf("soft delete removed the row")
		}
	})

	t.Run("ValidationRejectsUnknownRemote", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)

		bad := sampleContent(models.UnknownID)
		if err := repo.Create(models.NewCachedContent(0, bad)); err == nil {
			t.Error("placeholder remote IDs must not be cached")
		}
	})
}

func TestContentRepositoryList(t *testing.T) {
	seed := func(t *testing.T, repo *ContentRepository) {
		t.Helper()
		specs := []struct {
			remoteID  string
			source    string
			published string
			saved     bool
			relevance float64
		}{
			{"vid-1", "youtube", "2025-06-01T00:00:00Z", true, 0.9},
			{"vid-2", "youtube", "2025-06-03T00:00:00Z", false, 0.5},
			{"art-1", "rss", "2025-06-02T00:00:00Z", true, 0.2},
		}
		for _, s := range specs {
			content := sampleContent(s.remoteID)
			content.Source = s.source
			content.PublishedAt = s.published
			item := models.NewCachedContent(0, content)
			item.SetFlags(false, false, s.saved, false)
			item.SetRelevance(s.relevance)
			if err := repo.Create(item); err != nil {
				t.Fatal(err)
			}
		}
	}

	t.Run("NewestFirst", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)
		seed(t, repo)

		items, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 3 {
			t.Fatalf("got %d items", len(items))
		}
		want := []string{"vid-2", "art-1", "vid-1"}
		for i, w := range want {
			if items[i].RemoteID() != w {
				t.Errorf("position %d: got %q, want %q", i, items[i].RemoteID(), w)
			}
		}
	})

	t.Run("SavedOnly", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)
		seed(t, repo)

		items, err := repo.List(map[string]any{"saved": true})
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 2 {
			t.Fatalf("got %d saved items", len(items))
		}
		for _, item := range items {
			if !item.Saved() {
				t.Errorf("unsaved item %q in saved listing", item.RemoteID())
			}
		}
	})

	t.Run("SourceAndRelevance", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)
		seed(t, repo)

		items, err := repo.List(map[string]any{"source": "youtube", "min_relevance": 0.7})
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 || items[0].RemoteID() != "vid-1" {
			t.Errorf("items = %v", remoteIDs(items))
		}
	})

	t.Run("ExcludesDeleted", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)
		seed(t, repo)

		items, _ := repo.List(map[string]any{})
		repo.Delete(items[0].ID())

		after, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatal(err)
		}
		if len(after) != 2 {
			t.Errorf("got %d items after delete", len(after))
		}
	})
}

func TestContentCacheAdapter(t *testing.T) {
	t.Run("CachesNewContent", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)
		adapter := NewContentCacheAdapter(repo)

		if err := adapter.CacheContent(sampleContent("vid-1")); err != nil {
			t.Fatal(err)
		}
		if _, err := repo.GetByRemoteID("youtube", "vid-1"); err != nil {
			t.Errorf("content not cached: %v", err)
		}
	})

	t.Run("RefreshesExisting", func(t *testing.T) {
		db := testDB(t)
		repo := NewContentRepository(db)
		adapter := NewContentCacheAdapter(repo)

		adapter.CacheContent(sampleContent("vid-1"))

		updated := sampleContent("vid-1")
		updated.Title = "Understanding Go Channels, Revisited"
		updated.UserContent = &models.UserContent{
			ContentID:      "vid-1",
			Saved:          true,
			RelevanceScore: 0.88,
		}
		if err := adapter.CacheContent(updated); err != nil {
			t.Fatal(err)
		}

		items, _ := repo.List(map[string]any{})
		if len(items) != 1 {
			t.Fatalf("expected one cached row, got %d", len(items))
		}
		got := items[0]
		if got.Content().Title != "Understanding Go Channels, Revisited" {
			t.Errorf("title = %q", got.Content().Title)
		}
		if !got.Saved() || got.Relevance() != 0.88 {
			t.Errorf("overlay not refreshed: saved=%v relevance=%v", got.Saved(), got.Relevance())
		}
	})

	t.Run("RejectsPlaceholderID", func(t *testing.T) {
		db := testDB(t)
		adapter := NewContentCacheAdapter(NewContentRepository(db))

		if err := adapter.CacheContent(sampleContent(models.UnknownID)); err == nil {
			t.Error("placeholder IDs must not be cached")
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := testDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "contents")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("sequence = %d, want %d", got, want)
		}
	}
}

func remoteIDs(items []*models.CachedContent) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.RemoteID()
	}
	return ids
}

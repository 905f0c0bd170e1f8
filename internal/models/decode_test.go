package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDecodeContent(t *testing.T) {
	t.Run("Identifier Fallback Order", func(t *testing.T) {
		tc := []struct {
			name string
			raw  map[string]any
			want string
		}{
			{"underscore id wins", map[string]any{"_id": "a", "id": "b", "contentId": "c", "videoId": "d"}, "a"},
			{"plain id second", map[string]any{"id": "b", "contentId": "c", "videoId": "d"}, "b"},
			{"contentId third", map[string]any{"contentId": "c", "videoId": "d"}, "c"},
			{"videoId last", map[string]any{"videoId": "d"}, "d"},
			{"no identifier at all", map[string]any{"title": "x"}, UnknownID},
			{"empty strings skipped", map[string]any{"_id": "", "id": "", "contentId": "", "videoId": ""}, UnknownID},
			{"non-string identifiers skipped", map[string]any{"_id": 42, "id": true}, UnknownID},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got := DecodeContent(tt.raw)
				if got.ID != tt.want {
					t.Errorf("DecodeContent().ID = %q, want %q", got.ID, tt.want)
				}
			})
		}
	})

	t.Run("Highlights Always A Slice", func(t *testing.T) {
		tc := []struct {
			name string
			raw  map[string]any
			want []string
		}{
			{"absent", map[string]any{}, []string{}},
			{"null", map[string]any{"highlights": nil}, []string{}},
			{"not an array", map[string]any{"highlights": "oops"}, []string{}},
			{"numeric", map[string]any{"highlights": 7}, []string{}},
			{"mixed elements filtered", map[string]any{"highlights": []any{"keep", 1, nil, "this"}}, []string{"keep", "this"}},
			{"well formed", map[string]any{"highlights": []any{"a", "b"}}, []string{"a", "b"}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got := DecodeContent(tt.raw)
				if got.Highlights == nil {
					t.Fatal("highlights must never be nil")
				}
				if !reflect.DeepEqual(got.Highlights, tt.want) {
					t.Errorf("highlights = %v, want %v", got.Highlights, tt.want)
				}
			})
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		got := DecodeContent(map[string]any{})

		if got.Title != UntitledTitle {
			t.Errorf("title fallback = %q, want %q", got.Title, UntitledTitle)
		}
		if got.URL != FallbackURL {
			t.Errorf("url fallback = %q, want %q", got.URL, FallbackURL)
		}
		if got.Source != UnknownSource {
			t.Errorf("source fallback = %q, want %q", got.Source, UnknownSource)
		}
		if got.SourceChannel.Name != UnknownChannel {
			t.Errorf("channel fallback = %q, want %q", got.SourceChannel.Name, UnknownChannel)
		}
		if got.Category != DefaultCategory {
			t.Errorf("category fallback = %q, want %q", got.Category, DefaultCategory)
		}
		if !got.Processed {
			t.Error("processed must default to true")
		}
		if got.UserContent != nil {
			t.Error("absent userContent must stay nil")
		}
		for name, s := range map[string][]string{
			"tags": got.Tags, "keyPoints": got.KeyPoints, "relevantTopics": got.RelevantTopics,
		} {
			if s == nil || len(s) != 0 {
				t.Errorf("%s must be an empty slice, got %v", name, s)
			}
		}
	})

	t.Run("Alternate Field Spellings", func(t *testing.T) {
		raw := map[string]any{
			"videoId":      "v-1",
			"name":         "A Video",
			"link":         "https://example.com/v-1",
			"thumbnailUrl": "https://img.example.com/v-1.jpg",
			"channelId":    "ch-1",
			"channelTitle": "Some Channel",
		}

		got := DecodeContent(raw)
		if got.ID != "v-1" || got.Title != "A Video" || got.URL != "https://example.com/v-1" {
			t.Errorf("unexpected decode: %+v", got)
		}
		if got.Thumbnail != "https://img.example.com/v-1.jpg" {
			t.Errorf("thumbnail = %q", got.Thumbnail)
		}
		if got.SourceChannel.ID != "ch-1" || got.SourceChannel.Name != "Some Channel" {
			t.Errorf("channel = %+v", got.SourceChannel)
		}
		if got.SourceID != "ch-1" {
			t.Errorf("sourceId fallback to channelId failed: %q", got.SourceID)
		}
	})

	t.Run("User Content Overlay", func(t *testing.T) {
		raw := map[string]any{
			"_id": "c-9",
			"userContent": map[string]any{
				"userId":                 "u-1",
				"relevanceScore":         0.82,
				"saved":                  true,
				"personalizedHighlights": []any{"h1", 3, "h2"},
				"matchedInterests":       nil,
			},
		}

		got := DecodeContent(raw)
		uc := got.UserContent
		if uc == nil {
			t.Fatal("expected userContent overlay")
		}
		if uc.ContentID != "c-9" {
			t.Errorf("contentId must inherit the content ID, got %q", uc.ContentID)
		}
		if !uc.Saved || uc.Liked || uc.Viewed || uc.Dismissed {
			t.Errorf("unexpected flags: %+v", uc)
		}
		if uc.RelevanceScore != 0.82 {
			t.Errorf("relevanceScore = %v", uc.RelevanceScore)
		}
		if !reflect.DeepEqual(uc.PersonalizedHighlights, []string{"h1", "h2"}) {
			t.Errorf("personalizedHighlights = %v", uc.PersonalizedHighlights)
		}
		if uc.MatchedInterests == nil || len(uc.MatchedInterests) != 0 {
			t.Errorf("matchedInterests must be an empty slice, got %v", uc.MatchedInterests)
		}
	})

	t.Run("Idempotent On Canonical Records", func(t *testing.T) {
		first := DecodeContent(map[string]any{
			"videoId":     "v-2",
			"summary":     "short take",
			"channelName": "Chan",
			"tags":        []any{"go", "news"},
			"processed":   false,
			"publishedAt": "2025-03-01T10:00:00Z",
			"userContent": map[string]any{"liked": true},
		})

		data, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		second := DecodeContentJSON(data)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("second decode differs:\nfirst:  %+v\nsecond: %+v", first, second)
		}
	})

	t.Run("Non-Object JSON", func(t *testing.T) {
		got := DecodeContentJSON([]byte(`"not an object"`))
		if got.ID != UnknownID {
			t.Errorf("expected fallback record, got %+v", got)
		}
	})
}

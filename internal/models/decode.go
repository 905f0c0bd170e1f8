package models

import (
	"encoding/json"
)

// Fallback sentinels used when no candidate field resolves.
const (
	UnknownID       = "unknown"
	UntitledTitle   = "Untitled"
	FallbackURL     = "#"
	UnknownSource   = "unknown"
	UnknownChannel  = "Unknown Channel"
	DefaultCategory = "general"
)

// DecodeContent converts a loosely shaped content payload into the canonical
// [Content] record. Backend revisions have renamed most fields at least once,
// so every canonical field resolves through a fixed, ordered candidate list
// with a terminal fallback.
//
// The function is pure and total: it never fails, and malformed values fall
// through to the next candidate. Absent array fields decode to empty slices,
// absent booleans to false — except "processed", which defaults to true.
// Decoding an already canonical record is the identity.
func DecodeContent(raw map[string]any) Content {
	c := Content{
		ID:          pickString(raw, UnknownID, "_id", "id", "contentId", "videoId"),
		Title:       pickString(raw, UntitledTitle, "title", "name", "description"),
		Description: pickString(raw, "", "description", "summary", "personalizedSummary"),
		URL:         pickString(raw, FallbackURL, "url", "link", "videoUrl"),
		Source:      pickString(raw, UnknownSource, "source"),
		SourceID:    pickString(raw, "", "sourceId", "channelId"),
		Thumbnail:   pickString(raw, "", "thumbnail", "thumbnailUrl", "image"),
		PublishedAt: pickString(raw, "", "publishedAt", "createdAt"),
		CreatedAt:   pickString(raw, "", "createdAt"),
		Duration:    pickInt(raw, "duration"),
		Category:    pickString(raw, DefaultCategory, "category"),
		Summary:     pickString(raw, "", "summary", "description"),

		Tags:           pickStringSlice(raw, "tags"),
		Highlights:     pickStringSlice(raw, "highlights"),
		KeyPoints:      pickStringSlice(raw, "keyPoints"),
		RelevantTopics: pickStringSlice(raw, "relevantTopics"),

		Processed: pickBool(raw, true, "processed"),
	}

	c.SourceChannel = decodeChannel(raw)

	if uc, ok := raw["userContent"].(map[string]any); ok {
		c.UserContent = decodeUserContent(uc, c.ID)
	}

	return c
}

// DecodeContentJSON decodes raw JSON through [DecodeContent]. Payloads that
// are not a JSON object produce the all-fallback record.
func DecodeContentJSON(data []byte) Content {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		raw = map[string]any{}
	}
	return DecodeContent(raw)
}

func decodeChannel(raw map[string]any) SourceChannel {
	if sc, ok := raw["sourceChannel"].(map[string]any); ok {
		ch := SourceChannel{
			ID:   pickString(sc, "", "id"),
			Name: pickString(sc, UnknownChannel, "name"),
		}
		return ch
	}

	return SourceChannel{
		ID:   pickString(raw, "", "channelId"),
		Name: pickString(raw, UnknownChannel, "channelName", "channelTitle"),
	}
}

func decodeUserContent(raw map[string]any, contentID string) *UserContent {
	return &UserContent{
		ID:                     pickString(raw, UnknownID, "_id"),
		UserID:                 pickString(raw, "", "userId"),
		ContentID:              pickString(raw, contentID, "contentId"),
		RelevanceScore:         pickFloat(raw, "relevanceScore"),
		MatchedInterests:       pickStringSlice(raw, "matchedInterests"),
		PersonalizedSummary:    pickString(raw, "", "personalizedSummary"),
		PersonalizedHighlights: pickStringSlice(raw, "personalizedHighlights"),
		Viewed:                 pickBool(raw, false, "viewed"),
		ViewedAt:               pickString(raw, "", "viewedAt"),
		Liked:                  pickBool(raw, false, "liked"),
		Saved:                  pickBool(raw, false, "saved"),
		Dismissed:              pickBool(raw, false, "dismissed"),
		CreatedAt:              pickString(raw, "", "createdAt"),
	}
}

// pickString returns the first candidate key holding a non-empty string.
func pickString(raw map[string]any, fallback string, candidates ...string) string {
	for _, key := range candidates {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// pickStringSlice returns the string elements under key, or an empty slice
// when the value is absent, null, or not an array. Non-string elements are
// filtered out rather than rejected.
func pickStringSlice(raw map[string]any, key string) []string {
	out := []string{}

	switch v := raw[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, v...)
	}

	return out
}

func pickBool(raw map[string]any, fallback bool, key string) bool {
	if b, ok := raw[key].(bool); ok {
		return b
	}
	return fallback
}

func pickFloat(raw map[string]any, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func pickInt(raw map[string]any, key string) int {
	switch v := raw[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/shared"
)

// ContentRepository implements models.Repository[*models.CachedContent] for
// the offline content cache.
//
// Cached items carry the normalized content record plus the user-interaction
// overlay flattened into columns, so the feed and saved list remain
// queryable without the backend. The (source, remote_id) pair is unique.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new ContentRepository with the given database connection
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

const contentColumns = `id, sequence, remote_id, title, description, url, source, source_id,
	channel_id, channel_name, thumbnail, published_at, duration, category, summary,
	tags, highlights, relevance, viewed, liked, saved, dismissed,
	created_at, updated_at, deleted_at`

// Create inserts a new [models.CachedContent] with a generated ID and sequence
func (r *ContentRepository) Create(item *models.CachedContent) error {
	sequence, err := NextSequence(r.db, "contents")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	item.SetSequence(sequence)

	id := shared.GenerateID()
	item.SetID(id)

	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	content := item.Content()
	tags, highlights := encodeStrings(content.Tags), encodeStrings(content.Highlights)

	query := `
		INSERT INTO contents (` + contentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		item.RemoteID(),
		content.Title,
		content.Description,
		content.URL,
		content.Source,
		content.SourceID,
		content.SourceChannel.ID,
		content.SourceChannel.Name,
		content.Thumbnail,
		item.PublishedAt(),
		content.Duration,
		content.Category,
		content.Summary,
		tags,
		highlights,
		item.Relevance(),
		item.Viewed(),
		item.Liked(),
		item.Saved(),
		item.Dismissed(),
		item.CreatedAt(),
		item.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}

	return nil
}

// Get retrieves a cached item by local ID, excluding soft-deleted items
func (r *ContentRepository) Get(id string) (*models.CachedContent, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM contents
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a cached item by its backend identity
func (r *ContentRepository) GetByRemoteID(source, remoteID string) (*models.CachedContent, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM contents
		WHERE source = ? AND remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, source, remoteID))
}

// Update rewrites the content record and overlay flags of an existing item
func (r *ContentRepository) Update(item *models.CachedContent) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	item.SetUpdatedAt(now)

	content := item.Content()
	tags, highlights := encodeStrings(content.Tags), encodeStrings(content.Highlights)

	query := `
		UPDATE contents
		SET title = ?, description = ?, url = ?, source_id = ?, channel_id = ?,
			channel_name = ?, thumbnail = ?, published_at = ?, duration = ?,
			category = ?, summary = ?, tags = ?, highlights = ?, relevance = ?,
			viewed = ?, liked = ?, saved = ?, dismissed = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		content.Title,
		content.Description,
		content.URL,
		content.SourceID,
		content.SourceChannel.ID,
		content.SourceChannel.Name,
		content.Thumbnail,
		item.PublishedAt(),
		content.Duration,
		content.Category,
		content.Summary,
		tags,
		highlights,
		item.Relevance(),
		item.Viewed(),
		item.Liked(),
		item.Saved(),
		item.Dismissed(),
		now,
		item.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("content not found or already deleted: %s", item.ID())
	}

	return nil
}

// Delete soft-deletes a cached item by local ID
func (r *ContentRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE contents
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("content not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves cached items matching the given criteria, newest first,
// excluding soft-deleted items.
//
// Supported criteria: "source" (string), "saved" (bool), "liked" (bool),
// "dismissed" (bool), "min_relevance" (float64).
func (r *ContentRepository) List(criteria map[string]any) ([]*models.CachedContent, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM contents
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}
	if saved, ok := criteria["saved"].(bool); ok {
		query += " AND saved = ?"
		args = append(args, saved)
	}
	if liked, ok := criteria["liked"].(bool); ok {
		query += " AND liked = ?"
		args = append(args, liked)
	}
	if dismissed, ok := criteria["dismissed"].(bool); ok {
		query += " AND dismissed = ?"
		args = append(args, dismissed)
	}
	if minRelevance, ok := criteria["min_relevance"].(float64); ok {
		query += " AND relevance >= ?"
		args = append(args, minRelevance)
	}

	query += " ORDER BY published_at DESC, sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contents: %w", err)
	}
	defer rows.Close()

	var items []*models.CachedContent
	for rows.Next() {
		item, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

type contentScanner interface {
	Scan(dest ...any) error
}

// scanOne scans a single [sql.Row] into a [models.CachedContent]
func (r *ContentRepository) scanOne(row *sql.Row) (*models.CachedContent, error) {
	item, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("content not found")
	}
	return item, err
}

// scanRow scans a row from [sql.Rows] into a [models.CachedContent]
func (r *ContentRepository) scanRow(rows *sql.Rows) (*models.CachedContent, error) {
	return scanContent(rows)
}

func scanContent(s contentScanner) (*models.CachedContent, error) {
	var (
		id          string
		sequence    int
		remoteID    string
		title       string
		description sql.NullString
		url         sql.NullString
		source      string
		sourceID    sql.NullString
		channelID   sql.NullString
		channelName sql.NullString
		thumbnail   sql.NullString
		publishedAt sql.NullTime
		duration    int
		category    sql.NullString
		summary     sql.NullString
		tags        sql.NullString
		highlights  sql.NullString
		relevance   float64
		viewed      bool
		liked       bool
		saved       bool
		dismissed   bool
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := s.Scan(&id, &sequence, &remoteID, &title, &description, &url, &source,
		&sourceID, &channelID, &channelName, &thumbnail, &publishedAt, &duration,
		&category, &summary, &tags, &highlights, &relevance, &viewed, &liked,
		&saved, &dismissed, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	content := models.Content{
		ID:          remoteID,
		Title:       title,
		Description: description.String,
		URL:         url.String,
		Source:      source,
		SourceID:    sourceID.String,
		SourceChannel: models.SourceChannel{
			ID:   channelID.String,
			Name: channelName.String,
		},
		Thumbnail:  thumbnail.String,
		Duration:   duration,
		Category:   category.String,
		Summary:    summary.String,
		Tags:       decodeStrings(tags.String),
		Highlights: decodeStrings(highlights.String),
		Processed:  true,
	}
	if publishedAt.Valid {
		content.PublishedAt = publishedAt.Time.UTC().Format(time.RFC3339)
	}

	item := models.NewCachedContent(sequence, content)
	item.SetID(id)
	item.SetFlags(viewed, liked, saved, dismissed)
	item.SetRelevance(relevance)
	item.SetCreatedAt(createdAt)
	item.SetUpdatedAt(updatedAt)
	if publishedAt.Valid {
		item.SetPublishedAt(publishedAt.Time)
	}
	if deletedAt.Valid {
		item.SetDeletedAt(&deletedAt.Time)
	}

	return item, nil
}

// encodeStrings serializes a string slice for a TEXT column.
func encodeStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeStrings(data string) []string {
	if data == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return []string{}
	}
	if values == nil {
		return []string{}
	}
	return values
}

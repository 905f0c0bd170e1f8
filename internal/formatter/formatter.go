// package formatter provides functions to export content lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/shared"
)

// ContentExport bundles a content list with the heading used in rendered output.
type ContentExport struct {
	Title string
	Items []models.Content
}

// ExportToCSV converts a ContentExport to CSV format with columns: ID, Title, Source, Channel, URL, Published, Duration, Category, Relevance, Saved, Liked
func ExportToCSV(export *ContentExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Source", "Channel", "URL", "Published", "Duration", "Category", "Relevance", "Saved", "Liked"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Items {
		record := []string{
			item.ID,
			item.Title,
			item.Source,
			item.SourceChannel.Name,
			item.URL,
			item.PublishedAt,
			strconv.Itoa(item.Duration),
			item.Category,
			strconv.FormatFloat(item.Relevance(), 'f', 2, 64),
			strconv.FormatBool(item.IsSaved()),
			strconv.FormatBool(item.IsLiked()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a ContentExport to Markdown format with linked titles and summaries
func ExportToMarkdown(export *ContentExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Title))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(export.Items)))

	for i, item := range export.Items {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)", i+1, item.Title, item.URL))
		if item.SourceChannel.Name != "" {
			buf.WriteString(fmt.Sprintf(" — %s", item.SourceChannel.Name))
		}
		if item.Duration > 0 {
			buf.WriteString(fmt.Sprintf(" [%s]", shared.FormatDuration(item.Duration)))
		}
		buf.WriteString("\n")

		if item.Summary != "" {
			buf.WriteString(fmt.Sprintf("   > %s\n", item.Summary))
		}
		if len(item.Highlights) > 0 {
			for _, h := range item.Highlights {
				buf.WriteString(fmt.Sprintf("   - %s\n", h))
			}
		}
		if len(item.Tags) > 0 {
			buf.WriteString(fmt.Sprintf("   `%s`\n", strings.Join(item.Tags, "` `")))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ContentExport to plain text format
func ExportToText(export *ContentExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", export.Title))
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(export.Items)))

	for i, item := range export.Items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.Title))
		if item.SourceChannel.Name != "" {
			buf.WriteString(fmt.Sprintf("   %s (%s)\n", item.SourceChannel.Name, item.Source))
		}
		buf.WriteString(fmt.Sprintf("   %s\n", item.URL))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a ContentExport to indented JSON
func ExportToJSON(export *ContentExport) ([]byte, error) {
	data, err := json.MarshalIndent(export.Items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}
	return data, nil
}

// Formats lists the supported export format names.
func Formats() []string {
	return []string{"json", "csv", "markdown", "txt"}
}

// Export renders a ContentExport in the named format.
func Export(export *ContentExport, format string) ([]byte, error) {
	switch format {
	case "json":
		return ExportToJSON(export)
	case "csv":
		return ExportToCSV(export)
	case "markdown", "md":
		return ExportToMarkdown(export)
	case "txt", "text":
		return ExportToText(export)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q (supported: %s)",
			shared.ErrInvalidArgument, format, strings.Join(Formats(), ", "))
	}
}

// Extension returns the file extension for the named format.
func Extension(format string) string {
	switch format {
	case "markdown", "md":
		return ".md"
	case "csv":
		return ".csv"
	case "json":
		return ".json"
	default:
		return ".txt"
	}
}

// WriteExport renders the export in the named format and writes it to path,
// creating parent directories as needed. Returns the written path.
func WriteExport(export *ContentExport, format, path string) (string, error) {
	data, err := Export(export, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

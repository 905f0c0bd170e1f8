package formatter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandwipshanto/relevant/internal/models"
)

func sampleExport() *ContentExport {
	return &ContentExport{
		Title: "Saved Content",
		Items: []models.Content{
			{
				ID:     "vid-1",
				Title:  "Understanding Go Channels",
				URL:    "https://example.com/watch?v=vid-1",
				Source: "youtube",
				SourceChannel: models.SourceChannel{
					ID:   "UC123",
					Name: "Go Time",
				},
				PublishedAt: "2025-06-15T10:00:00Z",
				Duration:    840,
				Category:    "technology",
				Summary:     "Channels, explained",
				Tags:        []string{"go", "concurrency"},
				Highlights:  []string{"unbuffered blocks"},
				UserContent: &models.UserContent{
					ContentID:      "vid-1",
					RelevanceScore: 0.92,
					Saved:          true,
					Liked:          true,
				},
			},
			{
				ID:     "art-1",
				Title:  "Feeds, Curated",
				URL:    "https://example.com/articles/feeds",
				Source: "rss",
			},
		},
	}
}

func TestExporters(t *testing.T) {
	export := sampleExport()

	t.Run("CSV", func(t *testing.T) {
		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatal(err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("parsing output: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("got %d rows, want header + 2 items", len(records))
		}
		if records[0][0] != "ID" {
			t.Errorf("header = %v", records[0])
		}
		if records[1][1] != "Understanding Go Channels" {
			t.Errorf("row 1 = %v", records[1])
		}
		if records[1][9] != "true" {
			t.Errorf("saved column = %q", records[1][9])
		}
		// Missing overlay renders as defaults, not blanks.
		if records[2][8] != "0.00" || records[2][9] != "false" {
			t.Errorf("row 2 overlay columns = %v", records[2])
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		data, err := ExportToMarkdown(export)
		if err != nil {
			t.Fatal(err)
		}
		out := string(data)

		for _, want := range []string{
			"# Saved Content",
			"[Understanding Go Channels](https://example.com/watch?v=vid-1)",
			"Go Time",
			"[14:00]",
			"> Channels, explained",
			"- unbuffered blocks",
			"`go` `concurrency`",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("markdown missing %q", want)
			}
		}
	})

	t.Run("Text", func(t *testing.T) {
		data, err := ExportToText(export)
		if err != nil {
			t.Fatal(err)
		}
		out := string(data)
		if !strings.Contains(out, "1. Understanding Go Channels") {
			t.Errorf("text output = %q", out)
		}
		if !strings.Contains(out, "Items: 2") {
			t.Errorf("missing item count: %q", out)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := ExportToJSON(export)
		if err != nil {
			t.Fatal(err)
		}
		var items []models.Content
		if err := json.Unmarshal(data, &items); err != nil {
			t.Fatalf("round trip: %v", err)
		}
		if len(items) != 2 || items[0].ID != "vid-1" {
			t.Errorf("items = %v", items)
		}
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		if _, err := Export(export, "xml"); err == nil {
			t.Error("expected error for unsupported format")
		}
	})

	t.Run("EmptyList", func(t *testing.T) {
		empty := &ContentExport{Title: "Feed", Items: []models.Content{}}
		for _, format := range Formats() {
			if _, err := Export(empty, format); err != nil {
				t.Errorf("%s: %v", format, err)
			}
		}
	})
}

func TestWriteExport(t *testing.T) {
	export := sampleExport()

	t.Run("WritesFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "saved.md")
		written, err := WriteExport(export, "markdown", path)
		if err != nil {
			t.Fatal(err)
		}
		if written != path {
			t.Errorf("written = %q", written)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "# Saved Content") {
			t.Errorf("file content = %q", string(data))
		}
	})

	t.Run("BadFormatWritesNothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "saved.xml")
		if _, err := WriteExport(export, "xml", path); err == nil {
			t.Fatal("expected format error")
		}
		if _, err := os.Stat(path); err == nil {
			t.Error("file written despite format error")
		}
	})
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"json":     ".json",
		"csv":      ".csv",
		"markdown": ".md",
		"md":       ".md",
		"txt":      ".txt",
	}
	for format, want := range cases {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}

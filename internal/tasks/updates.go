package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	FetchFeed
	FetchSaved
	CacheItems
	ExportContent
	PollProcessing
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case FetchFeed:
		return "fetch_feed"
	case FetchSaved:
		return "fetch_saved"
	case CacheItems:
		return "cache_items"
	case ExportContent:
		return "export_content"
	case PollProcessing:
		return "poll_processing"
	default:
		return ""
	}
}

func fetchProfileUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProfile,
		Step:    step,
		Total:   total,
		Message: "Fetching profile...",
	}
}

func fetchFeedUpdate(page, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeed,
		Step:    page,
		Total:   total,
		Message: fmt.Sprintf("Fetching feed page %d...", page),
	}
}

func fetchSavedUpdate(page, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSaved,
		Step:    page,
		Total:   total,
		Message: fmt.Sprintf("Fetching saved items page %d...", page),
	}
}

func cachedItemsUpdate(step, total int, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Cached %d items locally", count),
	}
}

func exportingUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportContent,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, title),
	}
}

func exportCompletedUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportContent,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, path),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportContent,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func pollProcessingUpdate(active, queued int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PollProcessing,
		Message: fmt.Sprintf("Processing: %d active, %d queued...", active, queued),
	}
}

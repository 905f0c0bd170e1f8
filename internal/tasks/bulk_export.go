package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/formatter"
	"github.com/sandwipshanto/relevant/internal/shared"
)

// BulkExportOpts contains configuration for bulk content exports.
type BulkExportOpts struct {
	Formats    []string // Export formats: json, csv, markdown, txt (default: json)
	OutputDir  string   // Base output directory (default: relevant_export_{epoch})
	NumWorkers int      // Concurrent workers (default: 5)
	RateLimit  float64  // Requests per second (default: 5)
	MaxPages   int      // Pages to pull per listing (default: 5)
	PageSize   int      // Items per page (default: 10)
}

// ListingExportJob pairs a fetched listing with one output format.
type ListingExportJob struct {
	Listing string
	Format  string
	Export  *formatter.ContentExport
}

// ListingExportResult records the outcome of rendering one listing in one format.
type ListingExportResult struct {
	Listing string `json:"listing"`
	Format  string `json:"format"`
	File    string `json:"file,omitempty"`
	Success bool   `json:"success"`
	Error   error  `json:"-"`
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalJobs         int                   `json:"total_jobs"`
	SuccessfulExports int                   `json:"successful_exports"`
	FailedExports     int                   `json:"failed_exports"`
	OutputDirectory   string                `json:"output_directory"`
	ManifestPath      string                `json:"manifest_path,omitempty"`
	Results           []ListingExportResult `json:"results"`
}

// BulkExport exports content listings concurrently with rate limiting and progress tracking.
//
// Each named listing ("feed", "saved", "liked") is fetched from the backend,
// then rendered to every requested format by a worker pool. Partial failures
// are recorded per job; a manifest file summarizes the run.
func (e *RefreshEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	listings []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: api client not initialized", shared.ErrServiceUnavailable)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("%w: no listings requested", shared.ErrMissingArgument)
	}

	if len(opts.Formats) == 0 {
		opts.Formats = []string{"json"}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("relevant_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 5
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	totalJobs := len(listings) * len(opts.Formats)
	result := &BulkExportResult{
		TotalJobs:       totalJobs,
		OutputDirectory: opts.OutputDir,
		Results:         make([]ListingExportResult, 0, totalJobs),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan ListingExportJob, totalJobs)
	results := make(chan ListingExportResult, totalJobs)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, listing := range listings {
			select {
			case <-ctx.Done():
				return
			default:
			}

			export, err := e.fetchListing(ctx, limiter, listing, opts)
			if err != nil {
				for _, format := range opts.Formats {
					results <- ListingExportResult{
						Listing: listing,
						Format:  format,
						Error:   fmt.Errorf("failed to fetch listing: %w", err),
					}
				}
				continue
			}

			e.sendProgress(prog, exportingUpdate(i+1, len(listings), export.Title))
			for _, format := range opts.Formats {
				jobs <- ListingExportJob{Listing: listing, Format: format, Export: export}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, totalJobs, res.File))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, totalJobs, res.Listing, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// fetchListing pulls every page of one named listing.
func (e *RefreshEngine) fetchListing(ctx context.Context, limiter *rate.Limiter, listing string, opts BulkExportOpts) (*formatter.ContentExport, error) {
	var (
		title string
		fetch func(ctx context.Context, page int) (*api.ContentPage, error)
	)

	switch listing {
	case "feed":
		title = "Content Feed"
		fetch = func(ctx context.Context, page int) (*api.ContentPage, error) {
			return e.api.Feed(ctx, api.FeedParams{Page: page, Limit: opts.PageSize})
		}
	case "saved":
		title = "Saved Content"
		fetch = func(ctx context.Context, page int) (*api.ContentPage, error) {
			return e.api.Saved(ctx, api.PageParams{Page: page, Limit: opts.PageSize})
		}
	default:
		return nil, fmt.Errorf("%w: unknown listing %q (supported: feed, saved)", shared.ErrInvalidArgument, listing)
	}

	export := &formatter.ContentExport{Title: title}
	for page := 1; page <= opts.MaxPages; page++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		cp, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		export.Items = append(export.Items, cp.Items...)
		if !cp.Pagination.HasMore {
			break
		}
	}
	return export, nil
}

// exportWorker is a worker goroutine that renders listings from the jobs channel.
func (e *RefreshEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ListingExportJob,
	results chan<- ListingExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- renderListing(job, opts.OutputDir)
	}
}

// renderListing writes a single listing in a single format.
func renderListing(j ListingExportJob, outputDir string) ListingExportResult {
	result := ListingExportResult{Listing: j.Listing, Format: j.Format}

	path := filepath.Join(outputDir, j.Listing+formatter.Extension(j.Format))
	written, err := formatter.WriteExport(j.Export, j.Format, path)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", j.Format, err)
		return result
	}

	result.File = written
	result.Success = true
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	type manifestEntry struct {
		ListingExportResult
		Message string `json:"error,omitempty"`
	}
	manifest := struct {
		*BulkExportResult
		Results []manifestEntry `json:"results"`
	}{BulkExportResult: result}

	for _, res := range result.Results {
		entry := manifestEntry{ListingExportResult: res}
		if res.Error != nil {
			entry.Message = res.Error.Error()
		}
		manifest.Results = append(manifest.Results, entry)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Package runner orchestrates the full pipeline for an album directory:
// discover audio files and metadata sources, merge the sources, match files
// to records, then apply tags, renames, the cover, and the output listing.
//
// The pipeline is split into a read-only Resolve phase and a mutating Apply
// phase so a caller can present the plan for review before committing to it.
//
// Example usage:
//
//	r, err := runner.New(settings, func(e runner.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//	err = r.Run(ctx, runner.Options{Path: "/music/Artist - Album"})
//
// Several albums run concurrently through RunAll, bounded by the configured
// album concurrency.
package runner

// Package match reconciles metadata records with audio files on disk.
//
// Merge combines partial metadata sources (an album-wide config, a per-track
// listing, command-line overrides) into one record set sized to the file
// list, resolving near-duplicate files along the way. Engine.Apply then
// associates each file with a record through a pipeline of heuristics,
// cheapest first: positional or substring matching, word overlap on file
// names, embedded title tags, and a relaxed last-item fallback. Every record
// is claimed at most once; ambiguous claims are dropped rather than guessed.
package match

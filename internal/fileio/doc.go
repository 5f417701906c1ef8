// Package fileio provides file system utilities for the tagging pipeline.
//
// This package contains functions for:
//   - Audio file discovery (single files or whole directories)
//   - Conventional companion file lookup ("info.yml", "cover.jpg")
//   - Filename sanitization
//   - Backups before destructive operations
//   - Cover image preparation (resize, JPEG conversion)
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package fileio

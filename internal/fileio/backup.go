package fileio

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// BackupFiles copies every file into backupDir (created if needed) before any
// destructive operation. Base names are preserved; an existing backup of the
// same name is overwritten.
func BackupFiles(ctx context.Context, files []string, backupDir string) error {
	if err := EnsureDir(backupDir); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}
	for _, src := range files {
		dst := filepath.Join(backupDir, filepath.Base(src))
		if err := CopyFile(ctx, src, dst); err != nil {
			return fmt.Errorf("backing up [%s]: %w", src, err)
		}
		log.Debug().Str("file", src).Str("backup", dst).Msg("backed up file")
	}
	return nil
}

package fsutil

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"

	"github.com/spf13/afero"
)

// BackupSuffix is appended to a file path to form its sidecar backup path.
const BackupSuffix = ".sentinel.bak"

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies path to its sidecar backup unless a backup already
// exists. Returns true if a backup was written. An existing backup is never
// overwritten so repeated fixes keep the first original.
func (f *FS) CreateBackup(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	backupPath := BackupPath(path)
	exists, err := afero.Exists(f.fs, backupPath)
	if err != nil {
		return false, fmt.Errorf("stat backup path: %w", err)
	}
	if exists {
		return false, nil
	}

	stat, err := f.fs.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat original for backup: %w", err)
	}

	content, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if err := f.WriteAtomic(ctx, backupPath, content, stat.Mode()); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}

	return true, nil
}

package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"fraud-eda/internal/logging"
)

// EnsureFile downloads remoteID into localPath unless a file already exists
// there. An existing file is trusted as-is: no size, checksum or age checks.
// The download lands in a temporary sibling and is renamed into place, so an
// interrupted fetch never leaves a truncated cache file behind.
func EnsureFile(ctx context.Context, f Fetcher, remoteID, localPath string) (downloaded bool, err error) {
	info, err := os.Stat(localPath)
	if err == nil {
		if info.IsDir() {
			return false, fmt.Errorf("%w: %s is a directory", ErrFetch, localPath)
		}
		logging.Debugf("Dataset cache hit: %s", localPath)
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return false, fmt.Errorf("%w: creating cache directory: %v", ErrFetch, err)
	}

	tmpPath := fmt.Sprintf("%s.%s.part", localPath, uuid.NewString())
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := f.Fetch(ctx, remoteID, tmp); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if err := os.Rename(tmpPath, localPath); err != nil {
		return false, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	logging.Infof("Dataset cached at %s", localPath)
	return true, nil
}

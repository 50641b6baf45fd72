package embed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is the poll interval while waiting for the pull lock.
const lockRetryDelay = 500 * time.Millisecond

// acquireModelLock takes a cross-process file lock for pulling the given
// model. Multiple server instances starting against the same cold Ollama
// install would otherwise race to download the same model.
func acquireModelLock(ctx context.Context, model string) (func(), error) {
	name := "scentmatch-pull-" + sanitizeLockName(model) + ".lock"
	path := filepath.Join(os.TempDir(), name)

	fl := flock.New(path)

	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: not acquired", path)
	}

	return func() {
		_ = fl.Unlock()
	}, nil
}

// sanitizeLockName makes a model name safe for use in a file name.
func sanitizeLockName(model string) string {
	r := strings.NewReplacer("/", "-", ":", "-", "\\", "-")
	return r.Replace(model)
}

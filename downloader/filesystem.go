package downloader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Filesystem caches downloaded bundles under a directory, one file per
// URL (named by the URL's sha256) plus the retrieval timestamp in the
// file's mtime. HRDF bundles run to hundreds of megabytes, so they are
// kept as plain files rather than held in memory between runs.
type Filesystem struct {
	Dir string

	mutex sync.Mutex
}

func NewFilesystem(dir string) (*Filesystem, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Filesystem{Dir: dir}, nil
}

func (f *Filesystem) cachePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(f.Dir, hex.EncodeToString(sum[:])+".zip")
}

func (f *Filesystem) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {

	f.mutex.Lock()
	defer f.mutex.Unlock()

	path := f.cachePath(url)

	if options.Cache {
		if info, err := os.Stat(path); err == nil {
			if info.ModTime().Add(options.CacheTTL).After(time.Now()) {
				return os.ReadFile(path)
			}
		}
	}

	body, err := HTTPGet(ctx, url, headers, options)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}

	if options.Cache {
		if err := os.WriteFile(path, body, 0644); err != nil {
			return nil, fmt.Errorf("caching: %w", err)
		}
	}

	return body, nil
}

package notify

import (
	"context"
	"crypto/sha1" //nolint:gosec // file naming only
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// maxIconBytes bounds downloaded artwork.
const maxIconBytes = 5 << 20

// IconCache downloads artwork into a directory so notification servers,
// which only accept local paths, can show it.
type IconCache struct {
	dir    string
	client *http.Client
}

// NewIconCache stores icons under dir.
func NewIconCache(dir string, client *http.Client) *IconCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &IconCache{dir: dir, client: client}
}

// Path returns a local file for rawURL, downloading it when missing.
func (c *IconCache) Path(ctx context.Context, rawURL string) (string, error) {
	sum := sha1.Sum([]byte(rawURL)) //nolint:gosec // file naming only
	path := filepath.Join(c.dir, hex.EncodeToString(sum[:])+".img")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch icon: %s", resp.Status)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(c.dir, "icon-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxIconBytes)); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

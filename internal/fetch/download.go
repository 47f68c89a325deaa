// Package fetch downloads setup artifacts, pulls single files out of release
// archives and verifies minisign signatures on what was downloaded.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"pysetup/internal/logger"
)

// DefaultTimeout bounds a single download when the caller's context has no deadline.
const DefaultTimeout = 2 * time.Minute

// NewClient returns the HTTP client used for profile and installer downloads.
func NewClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// open issues a GET for url and returns the response body, failing on any
// non-2xx status.
func open(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "pysetup")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: HTTP status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// Download saves the content at url to destPath, truncating any existing file.
func Download(ctx context.Context, client *http.Client, url, destPath string) error {
	body, err := open(ctx, client, url)
	if err != nil {
		return err
	}
	// Closing errors are logged rather than returned; the content is already on disk.
	defer func() {
		if cerr := body.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}

	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write response to file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", destPath, err)
	}

	logger.Debug("[DEBUG] Downloaded %s to: %s\n", url, destPath)
	return nil
}

// FetchBytes returns the content at url held in memory. Use it for small
// artifacts such as profiles and signatures.
func FetchBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	body, err := open(ctx, client, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	logger.Debug("[DEBUG] Fetched %d bytes from %s\n", len(data), url)
	return data, nil
}

// SHA256 returns the lowercase hex digest of content.
func SHA256(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

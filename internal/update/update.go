// Package update checks for and fetches new host releases.
package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-json-experiment/json"

	"savebridge/internal/fault"
	"savebridge/internal/logx"
)

// Release describes one published host version.
type Release struct {
	Version string `json:"version"`
	URL     string `json:"url"`
	Notes   string `json:"notes,omitempty"`
}

// Service is the auto-update contract consumed by the RPC handlers. It is
// always an injected reference, never a process-wide singleton.
type Service interface {
	// Check returns the newer release, or nil when the host is current.
	Check(ctx context.Context) (*Release, error)
	// DownloadAndInstall fetches the release found by the last Check and
	// returns the path of the downloaded installer.
	DownloadAndInstall(ctx context.Context) (string, error)
}

// HTTPService implements Service against a JSON manifest endpoint.
type HTTPService struct {
	manifestURL string
	current     string
	client      *http.Client

	mu      sync.Mutex
	pending *Release
}

// NewHTTPService creates an updater for the given manifest URL.
// currentVersion is the running host's version string.
func NewHTTPService(manifestURL, currentVersion string, timeout time.Duration) *HTTPService {
	return &HTTPService{
		manifestURL: manifestURL,
		current:     currentVersion,
		client:      &http.Client{Timeout: timeout},
	}
}

// Check implements Service.
func (s *HTTPService) Check(ctx context.Context) (*Release, error) {
	if s.manifestURL == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.manifestURL, nil)
	if err != nil {
		return nil, fault.Wrap(fault.External, err, "bad manifest url")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.External, err, "manifest request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fault.New(fault.External, "manifest request returned %s", resp.Status)
	}

	var release Release
	if err := json.UnmarshalRead(resp.Body, &release); err != nil {
		return nil, fault.Wrap(fault.External, err, "malformed manifest")
	}
	if release.Version == "" || release.Version == s.current {
		return nil, nil
	}

	s.mu.Lock()
	s.pending = &release
	s.mu.Unlock()
	logx.Log.Info().Str("current", s.current).Str("available", release.Version).Msg("update available")
	return &release, nil
}

// DownloadAndInstall implements Service.
func (s *HTTPService) DownloadAndInstall(ctx context.Context) (string, error) {
	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()
	if pending == nil {
		return "", fault.New(fault.External, "no update pending; check first")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pending.URL, nil)
	if err != nil {
		return "", fault.Wrap(fault.External, err, "bad release url")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fault.Wrap(fault.External, err, "release download failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fault.New(fault.External, "release download returned %s", resp.Status)
	}

	dest := filepath.Join(os.TempDir(), fmt.Sprintf("savebridge-%s%s", pending.Version, filepath.Ext(pending.URL)))
	out, err := os.Create(dest)
	if err != nil {
		return "", fault.Wrap(fault.IO, err, "cannot create %s", dest)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", fault.Wrap(fault.IO, err, "cannot write %s", dest)
	}
	if err := out.Close(); err != nil {
		return "", fault.Wrap(fault.IO, err, "cannot finish %s", dest)
	}
	logx.Log.Info().Str("version", pending.Version).Str("installer", dest).Msg("update downloaded")
	return dest, nil
}

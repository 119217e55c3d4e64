// Package github queries the GitHub Releases API for the latest published
// release of the application, the same endpoint the application's
// auto-updater polls to decide whether to download a new build.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xuniorss/releasekit/internal/version"
)

const (
	// DefaultBaseURL is the GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 10 * time.Second

	userAgent = "releasekit"
)

var (
	// ErrNoReleases is returned when the repository has no published release.
	ErrNoReleases = errors.New("no releases found")
	// ErrRateLimited is returned when the API refuses the request (HTTP 403/429).
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Release represents a GitHub release.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset represents a single release asset.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// FindAsset returns the asset named name (case-insensitive). With an empty
// name, or when no asset matches, it falls back to the first .exe asset,
// which is what the updater downloads.
func (r *Release) FindAsset(name string) (*Asset, bool) {
	if name != "" {
		for i := range r.Assets {
			if strings.EqualFold(r.Assets[i].Name, name) {
				return &r.Assets[i], true
			}
		}
	}
	for i := range r.Assets {
		a := &r.Assets[i]
		if strings.HasSuffix(strings.ToLower(a.Name), ".exe") && a.BrowserDownloadURL != "" {
			return a, true
		}
	}
	return nil, false
}

// Client provides release lookups.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a new client with the given timeout. A non-empty token
// is sent as a bearer token, which private repositories require.
func NewClient(timeout time.Duration, token string) *Client {
	if timeout == 0 {
		timeout = DefaultHTTPTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    DefaultBaseURL,
		token:      token,
	}
}

// SetBaseURL sets the API root. This is intended for testing purposes.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// LatestRelease fetches the latest published release of owner/repo.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("repository not configured (owner %q, repo %q)", owner, repo)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s/%s: %w", owner, repo, ErrNoReleases)
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if release.TagName == "" {
		release.TagName = release.Name
	}

	return &release, nil
}

// Status relates the local marker version to the latest published release.
type Status int

const (
	// StatusUpToDate means the marker matches the published release.
	StatusUpToDate Status = iota
	// StatusUnreleased means the marker is ahead: a release is pending.
	StatusUnreleased
	// StatusBehind means the published release is newer than the marker.
	StatusBehind
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "up to date"
	case StatusUnreleased:
		return "unreleased"
	case StatusBehind:
		return "behind"
	default:
		return "unknown"
	}
}

// Compare classifies markerValue against the release tag. Both sides are
// parsed loosely, matching how the auto-updater reads tags, so "V0.1.4",
// "v0.1" and "v0.1.4-beta" are all accepted.
func Compare(markerValue string, release *Release) (Status, error) {
	local, err := version.ParseLoose(markerValue)
	if err != nil {
		return 0, fmt.Errorf("parsing marker version: %w", err)
	}
	published, err := version.ParseLoose(release.TagName)
	if err != nil {
		return 0, fmt.Errorf("parsing release tag: %w", err)
	}

	switch local.Compare(published) {
	case 0:
		return StatusUpToDate, nil
	case 1:
		return StatusUnreleased, nil
	default:
		return StatusBehind, nil
	}
}

package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scannerRelease = `{
	"tag_name": "v1.4.0",
	"name": "v1.4.0",
	"html_url": "https://github.com/xuniorss/muscanner/releases/tag/v1.4.0",
	"published_at": "2026-09-30T12:00:00Z",
	"assets": [
		{"name": "checksums.txt", "browser_download_url": "https://example.com/checksums.txt", "size": 120},
		{"name": "ScannerGUI.exe", "browser_download_url": "https://example.com/ScannerGUI.exe", "size": 41943040}
	]
}`

func TestClient_LatestRelease(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		responseCode int
		responseBody string
		wantTag      string
		wantErr      error
		wantErrText  string
	}{
		"published release": {
			responseCode: http.StatusOK,
			responseBody: scannerRelease,
			wantTag:      "v1.4.0",
		},
		"tag falls back to name": {
			responseCode: http.StatusOK,
			responseBody: `{"name": "v1.3.2", "assets": []}`,
			wantTag:      "v1.3.2",
		},
		"rate limited": {
			responseCode: http.StatusForbidden,
			responseBody: `{"message": "API rate limit exceeded"}`,
			wantErr:      ErrRateLimited,
		},
		"no releases": {
			responseCode: http.StatusNotFound,
			responseBody: `{"message": "Not Found"}`,
			wantErr:      ErrNoReleases,
		},
		"server error": {
			responseCode: http.StatusBadGateway,
			responseBody: `oops`,
			wantErrText:  "unexpected status code: 502",
		},
		"malformed body": {
			responseCode: http.StatusOK,
			responseBody: `{"tag_name": `,
			wantErrText:  "decoding response",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/xuniorss/muscanner/releases/latest", r.URL.Path)
				assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
				assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
				assert.Empty(t, r.Header.Get("Authorization"))
				w.WriteHeader(tt.responseCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := NewClient(5*time.Second, "")
			client.SetBaseURL(server.URL)

			release, err := client.LatestRelease(context.Background(), "xuniorss", "muscanner")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				return
			case tt.wantErrText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrText)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTag, release.TagName)
		})
	}
}

func TestClient_LatestRelease_SendsToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(scannerRelease))
	}))
	defer server.Close()

	client := NewClient(0, "s3cret")
	client.SetBaseURL(server.URL + "/")

	release, err := client.LatestRelease(context.Background(), "xuniorss", "muscanner")
	require.NoError(t, err)
	assert.Len(t, release.Assets, 2)
}

func TestClient_LatestRelease_RequiresRepository(t *testing.T) {
	t.Parallel()

	_, err := NewClient(time.Second, "").LatestRelease(context.Background(), "", "muscanner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository not configured")
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(scannerRelease))
	}))
	defer server.Close()

	client := NewClient(10*time.Millisecond, "")
	client.SetBaseURL(server.URL)

	_, err := client.LatestRelease(context.Background(), "xuniorss", "muscanner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing request")
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scannerRelease))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "")
	client.SetBaseURL(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.LatestRelease(ctx, "xuniorss", "muscanner")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRelease_FindAsset(t *testing.T) {
	t.Parallel()

	release := &Release{Assets: []Asset{
		{Name: "notes.md", BrowserDownloadURL: "https://example.com/notes.md"},
		{Name: "Installer.exe", BrowserDownloadURL: "https://example.com/Installer.exe"},
		{Name: "ScannerGUI.exe", BrowserDownloadURL: "https://example.com/ScannerGUI.exe"},
	}}

	tests := map[string]struct {
		release *Release
		asset   string
		want    string
		wantOK  bool
	}{
		"exact name":              {release: release, asset: "ScannerGUI.exe", want: "ScannerGUI.exe", wantOK: true},
		"case insensitive":        {release: release, asset: "scannergui.EXE", want: "ScannerGUI.exe", wantOK: true},
		"falls back to first exe": {release: release, asset: "Missing.exe", want: "Installer.exe", wantOK: true},
		"empty name uses exe":     {release: release, asset: "", want: "Installer.exe", wantOK: true},
		"no assets":               {release: &Release{}, asset: "ScannerGUI.exe"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.release.FindAsset(tt.asset)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.Name)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		marker  string
		tag     string
		want    Status
		wantErr bool
	}{
		"equal":                   {marker: "1.4.0", tag: "v1.4.0", want: StatusUpToDate},
		"marker ahead":            {marker: "1.5.0", tag: "v1.4.0", want: StatusUnreleased},
		"marker behind":           {marker: "1.3.9", tag: "v1.4.0", want: StatusBehind},
		"prefixed marker":         {marker: "v1.4.0", tag: "1.4.0", want: StatusUpToDate},
		"pre-release tag ahead":   {marker: "0.1.3", tag: "v0.1.4-beta", want: StatusBehind},
		"release above beta":      {marker: "0.1.4", tag: "v0.1.4-beta", want: StatusUnreleased},
		"upper case prefix":       {marker: "0.1.4", tag: "V0.1.4", want: StatusUpToDate},
		"short tag":               {marker: "0.1.0", tag: "v0.1", want: StatusUpToDate},
		"leading zeros in marker": {marker: "01.04.00", tag: "v1.4.0", want: StatusUpToDate},
		"bad marker":              {marker: "dev", tag: "v1.4.0", wantErr: true},
		"bad tag":                 {marker: "1.4.0", tag: "latest", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Compare(tt.marker, &Release{TagName: tt.tag})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "up to date", StatusUpToDate.String())
	assert.Equal(t, "unreleased", StatusUnreleased.String())
	assert.Equal(t, "behind", StatusBehind.String())
	assert.Equal(t, "unknown", Status(42).String())
}

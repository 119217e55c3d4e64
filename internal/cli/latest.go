package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xuniorss/releasekit/internal/github"
	"github.com/xuniorss/releasekit/internal/marker"
)

func newLatestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Compare the marker with the latest published GitHub Release",
		Long: `Compare the marker with the latest published GitHub Release.

Fetches the release the application's auto-updater would download and
reports whether the local marker is up to date, ahead (unreleased
changes) or behind. GITHUB_TOKEN is sent when set, which private
repositories require.`,
		Example: `  release latest`,
		GroupID: groupInspect,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			client := github.NewClient(time.Duration(a.cfg.HTTPTimeout)*time.Second, os.Getenv("GITHUB_TOKEN"))
			client.SetBaseURL(a.cfg.GitHubAPIURL)

			release, err := client.LatestRelease(cmd.Context(), a.cfg.GitHubOwner, a.cfg.GitHubRepo)
			if errors.Is(err, github.ErrNoReleases) {
				fmt.Fprintf(a.stdout, "%s/%s has no published release yet\n", a.cfg.GitHubOwner, a.cfg.GitHubRepo)
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetching latest release: %w", err)
			}

			printLatestRelease(a.stdout, release, a.cfg.AssetName)

			value, err := marker.Read(a.cfg.MarkerPath(), a.cfg.MarkerName)
			if err != nil {
				a.logger.Warn("cannot compare with local marker", "err", err)
				return nil
			}
			status, err := github.Compare(value, release)
			if err != nil {
				return err
			}
			printMarkerStatus(a.stdout, value, status)
			return nil
		},
	}
}

func printLatestRelease(w io.Writer, release *github.Release, assetName string) {
	fmt.Fprintf(w, "Latest release: %s", release.TagName)
	if !release.PublishedAt.IsZero() {
		fmt.Fprintf(w, " (published %s)", release.PublishedAt.Format(time.DateOnly))
	}
	fmt.Fprintln(w)
	if release.HTMLURL != "" {
		fmt.Fprintf(w, "URL:            %s\n", release.HTMLURL)
	}
	if asset, ok := release.FindAsset(assetName); ok {
		fmt.Fprintf(w, "Asset:          %s %s\n", asset.Name, asset.BrowserDownloadURL)
	} else {
		fmt.Fprintln(w, "Asset:          none (the updater will find nothing to download)")
	}
}

func printMarkerStatus(w io.Writer, value string, status github.Status) {
	fmt.Fprintf(w, "Marker:         %s ", value)
	switch status {
	case github.StatusUpToDate:
		color.New(color.FgGreen).Fprintln(w, "(up to date)")
	case github.StatusUnreleased:
		color.New(color.FgYellow).Fprintln(w, "(unreleased changes)")
	default:
		color.New(color.FgRed).Fprintln(w, "(marker behind)")
	}
}

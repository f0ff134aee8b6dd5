package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"arc-setup/internal/logger"
)

// DefaultGitHubAPI is the REST endpoint release metadata is read from.
const DefaultGitHubAPI = "https://api.github.com"

// GitHubRelease represents the structure of a GitHub release JSON response.
type GitHubRelease struct {
	TagName string        `json:"tag_name"` // The release tag (e.g., v1.0.0)
	Assets  []GitHubAsset `json:"assets"`
}

// GitHubAsset is a single downloadable file attached to a release.
type GitHubAsset struct {
	Name               string `json:"name"`                 // Asset filename
	BrowserDownloadURL string `json:"browser_download_url"` // Direct download URL for the asset
}

// fetchRelease reads release metadata for repo at tag, or the latest release when tag is empty.
func fetchRelease(ctx context.Context, client *http.Client, api, repo, tag string) (*GitHubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", api, repo)
	if tag != "" {
		url = fmt.Sprintf("%s/repos/%s/releases/tags/%s", api, repo, tag)
	}
	logger.Debug("[DEBUG] Fetching GitHub release from URL: %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET error fetching release for %s: %w", repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub release fetch failed for %s: HTTP status %d", repo, resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub release JSON for %s: %w", repo, err)
	}
	logger.Debug("[DEBUG] Release tag: %s with %d assets\n", release.TagName, len(release.Assets))
	return &release, nil
}

// matchAsset returns the first asset whose name ends in one of suffixes, trying
// suffixes in order of preference.
func matchAsset(release *GitHubRelease, suffixes []string) (GitHubAsset, error) {
	for _, suffix := range suffixes {
		for _, asset := range release.Assets {
			if strings.HasSuffix(strings.ToLower(asset.Name), strings.ToLower(suffix)) {
				logger.Debug("[DEBUG] Found matching asset: %s\n", asset.Name)
				return asset, nil
			}
		}
	}
	return GitHubAsset{}, fmt.Errorf("no asset ending in %s in release %s", strings.Join(suffixes, "/"), release.TagName)
}

// Package publish pushes the run's report artifacts to a GitHub
// repository through the contents API, so the latest CSV and JSON are
// always browsable without access to the machine running the monitor.
package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"estrenos-monitor/utils"
)

// GitHubPublisher updates files in a repository branch. Each update is
// one contents-API PUT; existing files need their current blob sha.
type GitHubPublisher struct {
	token   string
	repo    string // "owner/name"
	branch  string
	client  *http.Client
	baseURL string
	logger  *utils.Logger
}

func NewGitHubPublisher(token, repo, branch string, timeout time.Duration, logger *utils.Logger) *GitHubPublisher {
	return &GitHubPublisher{
		token:   token,
		repo:    repo,
		branch:  branch,
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://api.github.com",
		logger:  logger,
	}
}

// NewGitHubPublisherWithBaseURL points the publisher at an alternate
// API host (tests).
func NewGitHubPublisherWithBaseURL(token, repo, branch string, timeout time.Duration, logger *utils.Logger, baseURL string) *GitHubPublisher {
	p := NewGitHubPublisher(token, repo, branch, timeout, logger)
	p.baseURL = baseURL
	return p
}

// PublishReport uploads local files to repository paths. files maps
// repo path to local path; uploads run in sorted path order so retries
// behave the same way every time.
func (p *GitHubPublisher) PublishReport(ctx context.Context, date string, files map[string]string) error {
	paths := make([]string, 0, len(files))
	for repoPath := range files {
		paths = append(paths, repoPath)
	}
	sort.Strings(paths)

	for _, repoPath := range paths {
		data, err := os.ReadFile(files[repoPath])
		if err != nil {
			return fmt.Errorf("publish: read %q: %w", files[repoPath], err)
		}
		message := fmt.Sprintf("Update %s report for %s", repoPath, date)
		if err := p.putFile(ctx, repoPath, message, data); err != nil {
			return err
		}
		p.logger.Info("[publish] Updated %s in %s", repoPath, p.repo)
	}
	return nil
}

func (p *GitHubPublisher) putFile(ctx context.Context, repoPath, message string, data []byte) error {
	sha, err := p.currentSHA(ctx, repoPath)
	if err != nil {
		return err
	}

	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  p.branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("publish: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/contents/%s", p.baseURL, p.repo, repoPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("publish: build request: %w", err)
	}
	p.auth(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish: put %s: %w", repoPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("publish: put %s: HTTP %d: %s", repoPath, resp.StatusCode, detail)
	}
	return nil
}

// currentSHA returns the existing blob sha for a path, or "" when the
// file does not exist yet.
func (p *GitHubPublisher) currentSHA(ctx context.Context, repoPath string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", p.baseURL, p.repo, repoPath, p.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("publish: build request: %w", err)
	}
	p.auth(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("publish: get %s: %w", repoPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("publish: get %s: HTTP %d", repoPath, resp.StatusCode)
	}

	var meta struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("publish: decode %s metadata: %w", repoPath, err)
	}
	return meta.SHA, nil
}

func (p *GitHubPublisher) auth(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Accept", "application/vnd.github+json")
}

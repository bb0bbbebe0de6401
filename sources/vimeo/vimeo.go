// Package vimeo is a best-effort trailer source. Without an official
// token there is no reliable views endpoint, so it fetches the public
// page and looks for like/comment counters in the embedded metadata.
// Views stay absent; whatever cannot be found stays absent too.
package vimeo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"estrenos-monitor/models"
)

const (
	ErrNoURL = "no trailer url"
	ErrFetch = "fetch failed"
)

const userAgent = "Mozilla/5.0 (compatible; estrenos-monitor/1.0)"

// Page bodies beyond this are metadata-free player payload.
const maxBodyBytes = 2 << 20

var (
	likePatterns = []*regexp.Regexp{
		regexp.MustCompile(`"likeCount"\s*:\s*(\d+)`),
		regexp.MustCompile(`"likes"\s*:\s*(\d+)`),
	}
	commentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"commentCount"\s*:\s*(\d+)`),
		regexp.MustCompile(`"comments"\s*:\s*(\d+)`),
	}
)

// Client fetches Vimeo trailer pages.
type Client struct {
	client *http.Client
}

func New(timeout time.Duration) *Client {
	return &Client{client: &http.Client{Timeout: timeout}}
}

// Fetch scrapes like/comment counts from the video page.
func (c *Client) Fetch(ctx context.Context, trailerURL string) models.TrailerStats {
	if trailerURL == "" {
		return models.TrailerStats{Err: ErrNoURL}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trailerURL, nil)
	if err != nil {
		return models.TrailerStats{Err: ErrFetch}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return models.TrailerStats{Err: ErrFetch}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return models.TrailerStats{Err: fmt.Sprintf("http %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.TrailerStats{Err: ErrFetch}
	}

	return ParsePage(string(body))
}

// ParsePage extracts whatever counters the page exposes.
func ParsePage(html string) models.TrailerStats {
	return models.TrailerStats{
		Likes:    firstMatch(html, likePatterns),
		Comments: firstMatch(html, commentPatterns),
	}
}

func firstMatch(html string, patterns []*regexp.Regexp) *int64 {
	for _, p := range patterns {
		m := p.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return &v
		}
	}
	return nil
}

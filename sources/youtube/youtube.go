// Package youtube fetches trailer statistics through the YouTube Data
// API v3. Like every metric source, it reports failure as an err tag on
// the returned stats instead of a Go error: one title's broken trailer
// must never abort the run.
package youtube

import (
	"context"
	"regexp"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"estrenos-monitor/models"
)

// Err tags surfaced on snapshots.
const (
	ErrNotConfigured = "source not configured"
	ErrNoVideoID     = "no video id"
	ErrNoItems       = "video not found"
	ErrFetch         = "fetch failed"
)

var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=)([A-Za-z0-9_\-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_\-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_\-]{11})`),
}

// ExtractVideoID pulls the 11-character video id out of a watch,
// youtu.be or shorts URL. Empty when none matches.
func ExtractVideoID(url string) string {
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// Client wraps the Data API service. A Client built without an API key
// is valid and tags every fetch as not configured.
type Client struct {
	svc     *yt.Service
	timeout time.Duration
}

// New builds the client. The API key is optional: without one the
// source stays disabled rather than failing startup.
func New(ctx context.Context, apiKey string, timeout time.Duration) (*Client, error) {
	c := &Client{timeout: timeout}
	if apiKey == "" {
		return c, nil
	}
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	c.svc = svc
	return c, nil
}

// Fetch returns today's statistics for the trailer URL.
func (c *Client) Fetch(ctx context.Context, trailerURL string) models.TrailerStats {
	if c.svc == nil {
		return models.TrailerStats{Err: ErrNotConfigured}
	}

	id := ExtractVideoID(trailerURL)
	if id == "" {
		return models.TrailerStats{Err: ErrNoVideoID}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Videos.List([]string{"statistics"}).Id(id).Context(ctx).Do()
	if err != nil {
		return models.TrailerStats{Err: ErrFetch}
	}
	if len(resp.Items) == 0 {
		return models.TrailerStats{Err: ErrNoItems}
	}

	st := resp.Items[0].Statistics
	if st == nil {
		return models.TrailerStats{Err: ErrNoItems}
	}
	return models.TrailerStats{
		Views:    models.Int64(int64(st.ViewCount)),
		Likes:    models.Int64(int64(st.LikeCount)),
		Comments: models.Int64(int64(st.CommentCount)),
	}
}

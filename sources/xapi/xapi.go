// Package xapi aggregates 7-day X (Twitter) activity around a title
// using the v2 recent-search endpoint.
package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"estrenos-monitor/models"
)

const (
	ErrNotConfigured = "source not configured"
	ErrNoTitle       = "empty title"
	ErrRateLimited   = "rate limited"
	ErrFetch         = "fetch failed"
)

// DefaultBaseURL is the recent-search endpoint; overridable for tests.
const DefaultBaseURL = "https://api.twitter.com/2/tweets/search/recent"

// The API caps pages at 100 tweets; six pages bounds one title's cost.
const (
	pageSize = 100
	maxPages = 6
)

type searchResponse struct {
	Data []struct {
		PublicMetrics struct {
			LikeCount    int64 `json:"like_count"`
			ReplyCount   int64 `json:"reply_count"`
			RetweetCount int64 `json:"retweet_count"`
			QuoteCount   int64 `json:"quote_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Meta struct {
		NextToken string `json:"next_token"`
	} `json:"meta"`
}

// Client queries the recent-search API with a bearer token.
type Client struct {
	token   string
	client  *http.Client
	baseURL string
}

func New(token string, timeout time.Duration) *Client {
	return &Client{
		token:   token,
		client:  &http.Client{Timeout: timeout},
		baseURL: DefaultBaseURL,
	}
}

// NewWithBaseURL points the client at an alternate endpoint (tests).
func NewWithBaseURL(token string, timeout time.Duration, baseURL string) *Client {
	c := New(token, timeout)
	c.baseURL = baseURL
	return c
}

// Fetch counts tweets mentioning the title over the last 7 days and
// sums their engagement (likes + replies + retweets + quotes).
func (c *Client) Fetch(ctx context.Context, title string) models.SocialStats {
	if c.token == "" {
		return models.SocialStats{Err: ErrNotConfigured}
	}
	if title == "" {
		return models.SocialStats{Err: ErrNoTitle}
	}

	// Exact phrase plus unquoted variant, retweets excluded. Search is
	// sensitive to phrasing; this mirrors the deployed query. Embedded
	// quotes would terminate the phrase operator, so strip them.
	phrase := strings.ReplaceAll(title, `"`, "")
	query := fmt.Sprintf(`"%s" -is:retweet lang:es OR "%s" -is:retweet`, phrase, phrase)
	end := time.Now().UTC()
	start := end.Add(-7 * 24 * time.Hour)

	var posts, eng int64
	nextToken := ""

	for page := 0; page < maxPages; page++ {
		resp, status, err := c.search(ctx, query, start, end, nextToken)
		if err != nil {
			return models.SocialStats{Err: ErrFetch}
		}
		if status == http.StatusTooManyRequests {
			return models.SocialStats{Err: ErrRateLimited}
		}
		if status != http.StatusOK {
			return models.SocialStats{Err: fmt.Sprintf("http %d", status)}
		}

		for _, t := range resp.Data {
			posts++
			pm := t.PublicMetrics
			eng += pm.LikeCount + pm.ReplyCount + pm.RetweetCount + pm.QuoteCount
		}

		nextToken = resp.Meta.NextToken
		if nextToken == "" {
			break
		}
	}

	return models.SocialStats{Posts7d: &posts, Eng7d: &eng}
}

func (c *Client) search(ctx context.Context, query string, start, end time.Time, nextToken string) (*searchResponse, int, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(pageSize))
	params.Set("start_time", start.Format(time.RFC3339))
	params.Set("end_time", end.Format(time.RFC3339))
	params.Set("tweet.fields", "public_metrics")
	if nextToken != "" {
		params.Set("next_token", nextToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, err
	}
	return &out, resp.StatusCode, nil
}

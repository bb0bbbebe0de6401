// Package ultracine reads the semi-documented top-movies JSON services
// published on the Ultracine home page. The endpoints sometimes return
// bare JSON, sometimes wrap the list, and sometimes prepend noise, so
// parsing is deliberately tolerant; attendance numbers come formatted
// "49.988".
package ultracine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"estrenos-monitor/catalog"
	"estrenos-monitor/models"
)

// DefaultToken is the token embedded in the public home-page HTML.
const DefaultToken = "c4ca4238a0b923820dcc509a6f75849b"

const (
	ErrFetch   = "fetch failed"
	ErrNoJSON  = "unparseable payload"
	ErrNoItems = "empty top list"
)

// Entry is one ranked title from the top-movies feed.
type Entry struct {
	Title    string
	TitleKey string
	Tickets  *int64 // day's admissions ("Público")
	Cume     *int64 // cumulative admissions ("Acumulado")
}

// Client fetches and matches the top-movies feed.
type Client struct {
	token   string
	cty     string
	client  *http.Client
	baseURL string
}

func New(token, cty string, timeout time.Duration) *Client {
	if token == "" {
		token = DefaultToken
	}
	return &Client{
		token:   token,
		cty:     cty,
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://www.ultracine.com",
	}
}

// NewWithBaseURL points the client at an alternate host (tests).
func NewWithBaseURL(token, cty string, timeout time.Duration, baseURL string) *Client {
	c := New(token, cty, timeout)
	c.baseURL = baseURL
	return c
}

// FetchTop returns the ranked list, trying the wider endpoint first.
// On failure the err tag describes the last attempt.
func (c *Client) FetchTop(ctx context.Context) ([]Entry, string) {
	paths := []string{
		fmt.Sprintf("/webservices/services/json/wsHomeTopMovies03.php?token=%s&cty_id=%s&limit=20", c.token, c.cty),
		fmt.Sprintf("/webservices/services/json/wsHomeTopMovies.php?token=%s&cty_id=%s&limit=10", c.token, c.cty),
	}

	errTag := ErrFetch
	for _, path := range paths {
		body, err := c.fetch(ctx, c.baseURL+path)
		if err != nil {
			errTag = ErrFetch
			continue
		}

		entries, tag := ParsePayload(body)
		if tag == "" && len(entries) > 0 {
			return entries, ""
		}
		errTag = tag
		if errTag == "" {
			errTag = ErrNoItems
		}
	}
	return nil, errTag
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "estrenos-monitor/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

var embeddedJSON = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)

// ParsePayload normalizes whatever shape the service returned into a
// ranked entry list. Tag is empty on success.
func ParsePayload(text string) ([]Entry, string) {
	raw := decodeAny(text)
	if raw == nil {
		return nil, ErrNoJSON
	}

	items := itemList(raw)
	if items == nil {
		return nil, ErrNoJSON
	}

	var out []Entry
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		title := pickString(obj, "Título", "Titulo", "titulo", "title", "name", "movie", "pelicula")
		if title == "" {
			continue
		}
		out = append(out, Entry{
			Title:    title,
			TitleKey: catalog.TitleKey(title),
			Tickets:  pickInt(obj, "Público", "Publico", "publico", "tickets", "attendance", "audience"),
			Cume:     pickInt(obj, "Acumulado", "acumulado", "total", "total_tickets", "cume", "cumulative"),
		})
	}
	if len(out) == 0 {
		return nil, ErrNoItems
	}
	return out, ""
}

// decodeAny parses the body as JSON, falling back to the first JSON
// object or array embedded in surrounding noise.
func decodeAny(text string) any {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err == nil {
		return raw
	}
	m := embeddedJSON.FindString(text)
	if m == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(m), &raw); err != nil {
		return nil
	}
	return raw
}

// itemList digs the entry list out of the known envelope shapes: a bare
// array, a wrapper key, or an object keyed by rank.
func itemList(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"data", "result", "results", "top", "movies"} {
			if list, ok := v[key].([]any); ok {
				return list
			}
		}
		items := make([]any, 0, len(v))
		for _, val := range v {
			if _, ok := val.(map[string]any); !ok {
				return nil
			}
			items = append(items, val)
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func pickString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if s := strings.TrimSpace(fmt.Sprintf("%v", v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func pickInt(obj map[string]any, keys ...string) *int64 {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return models.Int64(int64(n))
		case string:
			if p := catalog.ParseLatinInt(n); p != nil {
				return p
			}
		}
	}
	return nil
}

// BestMatch finds the feed entry for a catalog title: exact title_key
// first, then containment (titles with subtitles), preferring the
// closest length.
func BestMatch(entries []Entry, title string) *Entry {
	k := catalog.TitleKey(title)
	if k == "" {
		return nil
	}

	for i := range entries {
		if entries[i].TitleKey == k {
			return &entries[i]
		}
	}

	best := -1
	bestDist := 0
	for i := range entries {
		uk := entries[i].TitleKey
		if uk == "" {
			continue
		}
		if !strings.Contains(uk, k) && !strings.Contains(k, uk) {
			continue
		}
		dist := len(uk) - len(k)
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return nil
	}
	return &entries[best]
}

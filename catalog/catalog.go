// Package catalog ingests the movie-release catalog published as CSV.
// A catalog that cannot be fetched or parsed is the one fatal condition
// of a run: without it there is nothing to process, so the error is
// raised before any snapshot write happens.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"estrenos-monitor/models"
	"estrenos-monitor/utils"
)

// Known header names, compared after trimming and lowercasing. The
// catalog schema is fixed; there is no fuzzy column detection.
var (
	titleHeaders   = []string{"titulo", "título", "title", "pelicula", "película"}
	dateHeaders    = []string{"estreno", "fecha_estreno", "fecha", "release_date"}
	trailerHeaders = []string{"trailer", "trailer_url", "url"}
)

// Release-date formats accepted, tried in order.
var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006", "02/01/06", "2006/01/02"}

// Loader fetches and parses catalog CSVs.
type Loader struct {
	urls   []string
	client *http.Client
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// NewLoader builds a Loader for the configured catalog URLs.
func NewLoader(urls []string, timeout time.Duration, maxRetries int, logger *utils.Logger) *Loader {
	return &Loader{
		urls:   urls,
		client: &http.Client{Timeout: timeout},
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Load fetches every configured URL, parses the rows, and returns the
// deduplicated catalog. An empty result is an error.
func (l *Loader) Load() ([]*models.Movie, error) {
	if len(l.urls) == 0 {
		return nil, errors.New("catalog: no CATALOG_CSV_URL configured")
	}

	var all []*models.Movie
	for _, url := range l.urls {
		var body string
		err := l.retry.Do("catalog fetch", func() error {
			var fetchErr error
			body, fetchErr = l.fetch(url)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}

		movies, err := Parse(body)
		if err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", url, err)
		}
		all = append(all, movies...)
	}

	deduped := Dedupe(all)
	if len(deduped) == 0 {
		return nil, errors.New("catalog: no usable rows in any catalog CSV")
	}

	l.logger.Info("[catalog] Loaded %d titles (%d before dedupe)", len(deduped), len(all))
	return deduped, nil
}

func (l *Loader) fetch(url string) (string, error) {
	resp, err := l.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("catalog: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("catalog: fetch %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("catalog: read %s: %w", url, err)
	}
	return string(body), nil
}

// Parse reads one catalog CSV. The delimiter is sniffed from the first
// chunk; rows without a title or parseable release date are skipped.
func Parse(text string) ([]*models.Movie, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = SniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	titleCol := findColumn(header, titleHeaders)
	dateCol := findColumn(header, dateHeaders)
	trailerCol := findColumn(header, trailerHeaders)
	if titleCol < 0 || dateCol < 0 {
		return nil, fmt.Errorf("missing title/release-date columns in header %v", header)
	}

	var movies []*models.Movie
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		title := strings.TrimSpace(field(record, titleCol))
		release, ok := ParseDate(field(record, dateCol))
		if title == "" || !ok {
			continue
		}

		trailer := ""
		if trailerCol >= 0 {
			trailer = strings.TrimSpace(field(record, trailerCol))
		}

		movies = append(movies, &models.Movie{
			TitleKey:    TitleKey(title),
			Title:       title,
			ReleaseDate: release,
			TrailerURL:  trailer,
			TrailerKind: models.ClassifyTrailer(trailer),
		})
	}
	return movies, nil
}

// Dedupe collapses rows sharing a title_key. When the catalog spans two
// sheets, the row that carries a trailer URL wins over the one that
// does not.
func Dedupe(movies []*models.Movie) []*models.Movie {
	seen := make(map[string]int, len(movies))
	var out []*models.Movie
	for _, m := range movies {
		if m.TitleKey == "" {
			continue
		}
		if i, dup := seen[m.TitleKey]; dup {
			if out[i].TrailerURL == "" && m.TrailerURL != "" {
				out[i] = m
			}
			continue
		}
		seen[m.TitleKey] = len(out)
		out = append(out, m)
	}
	return out
}

// SniffDelimiter picks the most frequent candidate delimiter in the
// first chunk of the file, defaulting to comma.
func SniffDelimiter(text string) rune {
	sample := text
	if len(sample) > 2000 {
		sample = sample[:2000]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(sample, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// ParseDate accepts the date spellings that show up across catalog
// exports. The result is a bare calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"estrenos-monitor/models"
)

// CSVWriter exports assembled report rows to a CSV file, one artifact
// per run. Absent values become empty cells, never zeros.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

var csvHeader = []string{
	"section", "title", "title_key", "release_date", "days_to_release",
	"trailer_kind", "trailer_url",
	"views", "views_24h", "likes", "likes_24h", "comments", "comments_24h",
	"views_since_baseline",
	"posts_7d", "posts_24h", "eng_7d", "eng_24h",
	"tickets", "cume", "cume_24h",
	"trailer_err", "social_err",
	"has_alert", "alert_reasons",
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteSection appends the rows of one report section ("upcoming" or
// "released") in their already-sorted order.
func (c *CSVWriter) WriteSection(section string, rows []*models.ReportRow) error {
	for _, r := range rows {
		record := []string{
			section,
			r.Title,
			r.TitleKey,
			r.ReleaseDate,
			strconv.Itoa(r.DaysToRelease),
			r.TrailerKind,
			r.TrailerURL,
			cell(r.Views), cell(r.ViewsDelta24h),
			cell(r.Likes), cell(r.LikesDelta24h),
			cell(r.Comments), cell(r.CommentsDelta24h),
			cell(r.ViewsSinceBaseline),
			cell(r.Posts7d), cell(r.PostsDelta24h),
			cell(r.Eng7d), cell(r.EngDelta24h),
			cell(r.Tickets), cell(r.Cume), cell(r.CumeDelta24h),
			r.TrailerErr,
			r.SocialErr,
			strconv.FormatBool(r.HasAlert),
			strings.Join(r.AlertReasons, " / "),
		}
		if err := c.writer.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func cell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

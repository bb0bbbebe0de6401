package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"estrenos-monitor/config"
	"estrenos-monitor/models"
	"estrenos-monitor/storage"
)

// BuildReport joins today's snapshots with their references and
// produces the partitioned run report. Every title in the window gets a
// row; absent data stays absent. The 24h reference is yesterday's
// snapshot, the growth baseline is the exact release−windowDays date.
func BuildReport(store storage.SnapshotStore, movies []*models.Movie, today time.Time, rules []config.Threshold, windowDays int) (*models.Report, error) {
	date := Midnight(today).Format(storage.DateLayout)

	report := &models.Report{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Date:        date,
	}

	for _, m := range movies {
		row, err := buildRow(store, m, today, date, rules, windowDays)
		if err != nil {
			return nil, fmt.Errorf("report: %s: %w", m.TitleKey, err)
		}
		if Upcoming(m.ReleaseDate, today) {
			report.Upcoming = append(report.Upcoming, row)
		} else {
			report.Released = append(report.Released, row)
		}
	}

	// Upcoming soonest first, released most recent first.
	sort.SliceStable(report.Upcoming, func(i, j int) bool {
		if report.Upcoming[i].ReleaseDate != report.Upcoming[j].ReleaseDate {
			return report.Upcoming[i].ReleaseDate < report.Upcoming[j].ReleaseDate
		}
		return report.Upcoming[i].Title < report.Upcoming[j].Title
	})
	sort.SliceStable(report.Released, func(i, j int) bool {
		if report.Released[i].ReleaseDate != report.Released[j].ReleaseDate {
			return report.Released[i].ReleaseDate > report.Released[j].ReleaseDate
		}
		return report.Released[i].Title < report.Released[j].Title
	})

	return report, nil
}

func buildRow(store storage.SnapshotStore, m *models.Movie, today time.Time, date string, rules []config.Threshold, windowDays int) (*models.ReportRow, error) {
	row := &models.ReportRow{
		Title:         m.Title,
		TitleKey:      m.TitleKey,
		ReleaseDate:   m.ReleaseDate.Format(storage.DateLayout),
		DaysToRelease: DaysToRelease(m.ReleaseDate, today),
		TrailerKind:   m.TrailerKind,
		TrailerURL:    m.TrailerURL,
	}

	source := models.TrailerSourceKey(m.TrailerKind)
	deltas := make(map[string]*int64)

	trailer, err := store.GetTrailer(date, m.TitleKey, source)
	if err != nil {
		return nil, err
	}
	prevTrailer, err := store.GetTrailerRelative(date, m.TitleKey, source, 1)
	if err != nil {
		return nil, err
	}
	baselineDate := Midnight(m.ReleaseDate).AddDate(0, 0, -windowDays).Format(storage.DateLayout)
	baseline, err := store.GetTrailer(baselineDate, m.TitleKey, source)
	if err != nil {
		return nil, err
	}
	if trailer != nil {
		row.Views = trailer.Views
		row.Likes = trailer.Likes
		row.Comments = trailer.Comments
		row.TrailerErr = trailer.TrailerStats.Err
		merge(deltas, ComputeDeltas(trailer.Metrics(), metricsOrNil(prevTrailer), models.TrailerMetrics))
		if baseline != nil {
			row.ViewsSinceBaseline = Sub(trailer.Views, baseline.Views)
		}
	}

	social, err := store.GetSocial(date, m.TitleKey)
	if err != nil {
		return nil, err
	}
	prevSocial, err := store.GetSocialRelative(date, m.TitleKey, 1)
	if err != nil {
		return nil, err
	}
	if social != nil {
		row.Posts7d = social.Posts7d
		row.Eng7d = social.Eng7d
		row.SocialErr = social.SocialStats.Err
		merge(deltas, ComputeDeltas(social.Metrics(), socialMetricsOrNil(prevSocial), models.SocialMetrics))
	}

	box, err := store.GetBoxOffice(date, m.TitleKey)
	if err != nil {
		return nil, err
	}
	prevBox, err := store.GetBoxOfficeRelative(date, m.TitleKey, 1)
	if err != nil {
		return nil, err
	}
	if box != nil {
		row.Tickets = box.Tickets
		row.Cume = box.Cume
		merge(deltas, ComputeDeltas(box.Metrics(), boxMetricsOrNil(prevBox), models.BoxOfficeMetrics))
	}

	row.ViewsDelta24h = deltas[models.MetricViews]
	row.LikesDelta24h = deltas[models.MetricLikes]
	row.CommentsDelta24h = deltas[models.MetricComments]
	row.PostsDelta24h = deltas[models.MetricPosts7d]
	row.EngDelta24h = deltas[models.MetricEng7d]
	row.CumeDelta24h = deltas[models.MetricCume]

	flag := EvaluateAlerts(deltas, rules)
	row.HasAlert = flag.HasAlert
	row.AlertReasons = flag.Reasons

	return row, nil
}

func merge(dst, src map[string]*int64) {
	for k, v := range src {
		dst[k] = v
	}
}

func metricsOrNil(s *models.TrailerSnapshot) map[string]*int64 {
	if s == nil {
		return nil
	}
	return s.Metrics()
}

func socialMetricsOrNil(s *models.SocialSnapshot) map[string]*int64 {
	if s == nil {
		return nil
	}
	return s.Metrics()
}

func boxMetricsOrNil(s *models.BoxOfficeSnapshot) map[string]*int64 {
	if s == nil {
		return nil
	}
	return s.Metrics()
}

// WriteJSON writes the report artifact, creating the output directory
// if needed.
func WriteJSON(path string, report *models.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("report: write %q: %w", path, err)
	}
	return nil
}

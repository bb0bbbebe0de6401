package models

import "time"

// Metric names shared by the snapshot store, the delta engine and the
// alert rule table. Stored column names match these exactly.
const (
	MetricViews    = "views"
	MetricLikes    = "likes"
	MetricComments = "comments"
	MetricPosts7d  = "posts_7d"
	MetricEng7d    = "eng_7d"
	MetricTickets  = "tickets"
	MetricCume     = "cume"
	MetricGross    = "gross"
	MetricScreens  = "screens"
)

// Declared metric order per source; delta maps are built in this order.
var (
	TrailerMetrics   = []string{MetricViews, MetricLikes, MetricComments}
	SocialMetrics    = []string{MetricPosts7d, MetricEng7d}
	BoxOfficeMetrics = []string{MetricTickets, MetricCume, MetricGross, MetricScreens}
)

// ErrNoTrailer tags the daily trailer row of a title whose catalog
// entry has no trailer URL. It is expected state, not a fetch failure.
const ErrNoTrailer = "no trailer"

// Int64 returns a pointer to v. Metric values are optional throughout:
// nil means "absent", which is distinct from zero.
func Int64(v int64) *int64 { return &v }

// TrailerStats is an adapter result for a trailer source. A non-empty
// Err explains why values are absent; it is data, not a Go error.
type TrailerStats struct {
	Views    *int64
	Likes    *int64
	Comments *int64
	Err      string
}

// Metrics returns the named optional values, keyed per TrailerMetrics.
func (s *TrailerStats) Metrics() map[string]*int64 {
	return map[string]*int64{
		MetricViews:    s.Views,
		MetricLikes:    s.Likes,
		MetricComments: s.Comments,
	}
}

// SocialStats is an adapter result for the social (X) source, both
// aggregated over the trailing 7 days.
type SocialStats struct {
	Posts7d *int64
	Eng7d   *int64
	Err     string
}

func (s *SocialStats) Metrics() map[string]*int64 {
	return map[string]*int64{
		MetricPosts7d: s.Posts7d,
		MetricEng7d:   s.Eng7d,
	}
}

// BoxOfficeStats holds daily admissions and cumulative totals. Gross
// and Screens only arrive via the manual import; the Ultracine feed
// carries admissions alone.
type BoxOfficeStats struct {
	Tickets *int64
	Cume    *int64
	Gross   *int64
	Screens *int64
	Err     string
}

func (s *BoxOfficeStats) Metrics() map[string]*int64 {
	return map[string]*int64{
		MetricTickets: s.Tickets,
		MetricCume:    s.Cume,
		MetricGross:   s.Gross,
		MetricScreens: s.Screens,
	}
}

// TrailerSnapshot is one stored trailer_daily row. At most one row
// exists per (Date, TitleKey, Source); Date is a YYYY-MM-DD string.
type TrailerSnapshot struct {
	Date     string
	TitleKey string
	Source   string // trailer kind: youtube / vimeo / other
	TrailerStats
}

// SocialSnapshot is one stored social_daily row.
type SocialSnapshot struct {
	Date     string
	TitleKey string
	Title    string
	SocialStats
}

// BoxOfficeSnapshot is one stored boxoffice_daily row.
type BoxOfficeSnapshot struct {
	Date     string
	TitleKey string
	BoxOfficeStats
}

// AlertFlag is the alert evaluator's verdict for one title.
type AlertFlag struct {
	HasAlert bool
	Reasons  []string
}

// RunSummary is the audit row recorded at the end of each daily run.
type RunSummary struct {
	RunID          string
	Date           string
	StartedAt      time.Time
	FinishedAt     time.Time
	CatalogSize    int
	TitlesInWindow int
	AlertCount     int
	FetchErrors    int
}

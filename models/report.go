package models

// ReportRow is the fully joined per-title record handed to the export
// and publishing collaborators. Optional values stay nil so renderers
// can show "—" instead of a fabricated zero.
type ReportRow struct {
	Title         string `json:"title"`
	TitleKey      string `json:"title_key"`
	ReleaseDate   string `json:"release_date"`
	DaysToRelease int    `json:"days_to_release"` // positive while upcoming
	TrailerKind   string `json:"trailer_kind,omitempty"`
	TrailerURL    string `json:"trailer_url,omitempty"`

	Views            *int64 `json:"views,omitempty"`
	ViewsDelta24h    *int64 `json:"views_delta_24h,omitempty"`
	Likes            *int64 `json:"likes,omitempty"`
	LikesDelta24h    *int64 `json:"likes_delta_24h,omitempty"`
	Comments         *int64 `json:"comments,omitempty"`
	CommentsDelta24h *int64 `json:"comments_delta_24h,omitempty"`

	// Growth since release−30, anchored to that exact snapshot date.
	ViewsSinceBaseline *int64 `json:"views_since_baseline,omitempty"`

	Posts7d       *int64 `json:"posts_7d,omitempty"`
	PostsDelta24h *int64 `json:"posts_delta_24h,omitempty"`
	Eng7d         *int64 `json:"eng_7d,omitempty"`
	EngDelta24h   *int64 `json:"eng_delta_24h,omitempty"`

	Tickets      *int64 `json:"tickets,omitempty"`
	Cume         *int64 `json:"cume,omitempty"`
	CumeDelta24h *int64 `json:"cume_delta_24h,omitempty"`

	TrailerErr string `json:"trailer_err,omitempty"`
	SocialErr  string `json:"social_err,omitempty"`

	HasAlert     bool     `json:"has_alert"`
	AlertReasons []string `json:"alert_reasons,omitempty"`
}

// Report is the complete artifact for one run, already partitioned.
type Report struct {
	GeneratedAt string       `json:"generated_at"`
	Date        string       `json:"date"`
	Upcoming    []*ReportRow `json:"upcoming"`
	Released    []*ReportRow `json:"released"`
}

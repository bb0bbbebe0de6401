// Package pipeline runs one daily cycle: load the catalog, snapshot
// every title inside the monitoring window, then assemble the report.
// Source failures are isolated per title; only a missing catalog or a
// broken store aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"estrenos-monitor/config"
	"estrenos-monitor/models"
	"estrenos-monitor/services"
	"estrenos-monitor/sources/ultracine"
	"estrenos-monitor/storage"
	"estrenos-monitor/utils"
)

// CatalogSource provides the release catalog for the run.
type CatalogSource interface {
	Load() ([]*models.Movie, error)
}

// TrailerSource fetches trailer stats for one URL. Failures come back
// as an Err tag inside the stats, never as a Go error.
type TrailerSource interface {
	Fetch(ctx context.Context, trailerURL string) models.TrailerStats
}

// SocialSource fetches 7-day social stats for one title.
type SocialSource interface {
	Fetch(ctx context.Context, title string) models.SocialStats
}

// BoxOfficeSource fetches the ranked top-movies list once per run.
type BoxOfficeSource interface {
	FetchTop(ctx context.Context) ([]ultracine.Entry, string)
}

// Pipeline wires the catalog, the metric sources and the snapshot
// store into one Run.
type Pipeline struct {
	store     storage.SnapshotStore
	catalog   CatalogSource
	trailers  map[string]TrailerSource // keyed by trailer kind
	social    SocialSource
	boxoffice BoxOfficeSource
	window    services.Window
	rules     []config.Threshold
	limiter   *utils.RateLimiter
	logger    *utils.Logger
}

// New builds a Pipeline. Any source may be nil; the run then records
// "source not configured" rows for it instead of skipping titles.
func New(store storage.SnapshotStore, catalog CatalogSource, trailers map[string]TrailerSource,
	social SocialSource, boxoffice BoxOfficeSource, cfg *config.Config, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		store:     store,
		catalog:   catalog,
		trailers:  trailers,
		social:    social,
		boxoffice: boxoffice,
		window:    services.Window{Days: cfg.WindowDays},
		rules:     cfg.Thresholds,
		limiter:   utils.NewRateLimiter(cfg.RateLimitMs),
		logger:    logger,
	}
}

// Run executes one daily cycle for the given calendar date and returns
// the assembled report plus the recorded run summary.
func (p *Pipeline) Run(ctx context.Context, today time.Time) (*models.Report, *models.RunSummary, error) {
	run := &models.RunSummary{
		RunID:     uuid.NewString(),
		Date:      services.Midnight(today).Format(storage.DateLayout),
		StartedAt: time.Now(),
	}

	movies, err := p.catalog.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}
	run.CatalogSize = len(movies)

	if err := p.store.UpsertMovies(movies); err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}

	var active []*models.Movie
	for _, m := range movies {
		if p.window.Contains(m.ReleaseDate, today) {
			active = append(active, m)
		}
	}
	run.TitlesInWindow = len(active)
	p.logger.Info("[pipeline] %d of %d titles inside the ±%d day window", len(active), len(movies), p.window.Days)

	// The box-office top list covers every title at once.
	var top []ultracine.Entry
	if p.boxoffice != nil {
		var tag string
		top, tag = p.boxoffice.FetchTop(ctx)
		if tag != "" {
			run.FetchErrors++
			p.logger.Warn("[pipeline] box-office feed: %s", tag)
		}
	}

	for _, m := range active {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("pipeline: %w", err)
		}
		if err := p.snapshotTitle(ctx, m, run, top); err != nil {
			return nil, nil, fmt.Errorf("pipeline: %w", err)
		}
	}

	report, err := services.BuildReport(p.store, active, today, p.rules, p.window.Days)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}
	for _, row := range append(append([]*models.ReportRow{}, report.Upcoming...), report.Released...) {
		if row.HasAlert {
			run.AlertCount++
		}
	}

	run.FinishedAt = time.Now()
	if err := p.store.RecordRun(run); err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}

	p.logger.Info("[pipeline] Run %s done: %d alerts, %d fetch errors", run.RunID, run.AlertCount, run.FetchErrors)
	return report, run, nil
}

// snapshotTitle fetches and persists one title's snapshots. Source
// failures become err tags on the rows; a store write failure is
// returned and aborts the run.
func (p *Pipeline) snapshotTitle(ctx context.Context, m *models.Movie, run *models.RunSummary, top []ultracine.Entry) error {
	stats := p.fetchTrailer(ctx, m)
	if failed(stats.Err) {
		run.FetchErrors++
		p.logger.Warn("[pipeline] %s: trailer: %s", m.TitleKey, stats.Err)
	}
	p.logger.Debug("[pipeline] %s: trailer views=%s likes=%s comments=%s",
		m.TitleKey, models.FmtNum(stats.Views), models.FmtNum(stats.Likes), models.FmtNum(stats.Comments))
	if err := p.store.UpsertTrailer(&models.TrailerSnapshot{
		Date:         run.Date,
		TitleKey:     m.TitleKey,
		Source:       models.TrailerSourceKey(m.TrailerKind),
		TrailerStats: stats,
	}); err != nil {
		return fmt.Errorf("%s: store trailer snapshot: %w", m.TitleKey, err)
	}

	social := p.fetchSocial(ctx, m)
	if failed(social.Err) {
		run.FetchErrors++
		p.logger.Warn("[pipeline] %s: social: %s", m.TitleKey, social.Err)
	}
	p.logger.Debug("[pipeline] %s: social posts=%s eng=%s",
		m.TitleKey, models.FmtNum(social.Posts7d), models.FmtNum(social.Eng7d))
	if err := p.store.UpsertSocial(&models.SocialSnapshot{
		Date:        run.Date,
		TitleKey:    m.TitleKey,
		Title:       m.Title,
		SocialStats: social,
	}); err != nil {
		return fmt.Errorf("%s: store social snapshot: %w", m.TitleKey, err)
	}

	// Box office only when the top list actually ranks the title; most
	// monitored titles will not chart and simply have no row.
	if entry := ultracine.BestMatch(top, m.Title); entry != nil {
		p.logger.Debug("[pipeline] %s: box office tickets=%s cume=%s",
			m.TitleKey, models.FmtNum(entry.Tickets), models.FmtNum(entry.Cume))
		if err := p.store.UpsertBoxOffice(&models.BoxOfficeSnapshot{
			Date:     run.Date,
			TitleKey: m.TitleKey,
			BoxOfficeStats: models.BoxOfficeStats{
				Tickets: entry.Tickets,
				Cume:    entry.Cume,
			},
		}); err != nil {
			return fmt.Errorf("%s: store box-office snapshot: %w", m.TitleKey, err)
		}
	}
	return nil
}

func (p *Pipeline) fetchTrailer(ctx context.Context, m *models.Movie) models.TrailerStats {
	if m.TrailerKind == models.TrailerNone {
		return models.TrailerStats{Err: models.ErrNoTrailer}
	}
	src, ok := p.trailers[m.TrailerKind]
	if !ok || src == nil {
		return models.TrailerStats{Err: "unsupported trailer source"}
	}
	p.limiter.Wait()
	return src.Fetch(ctx, m.TrailerURL)
}

func (p *Pipeline) fetchSocial(ctx context.Context, m *models.Movie) models.SocialStats {
	if p.social == nil {
		return models.SocialStats{Err: "source not configured"}
	}
	p.limiter.Wait()
	return p.social.Fetch(ctx, m.Title)
}

// failed reports whether an err tag counts as a fetch failure. Expected
// states (no trailer, deliberately unconfigured source) do not.
func failed(tag string) bool {
	switch tag {
	case "", models.ErrNoTrailer, "unsupported trailer source", "source not configured":
		return false
	}
	return true
}

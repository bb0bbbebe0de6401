package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"estrenos-monitor/models"
)

// DateLayout is the calendar-date key format used by every snapshot
// table. The system runs at most once per day, so date strings make
// "yesterday" and "N days ago" plain key arithmetic instead of range
// queries.
const DateLayout = "2006-01-02"

// Store implements SnapshotStore over database/sql. The same SQL serves
// both backends: queries are written with ? placeholders and rebound to
// $n for PostgreSQL, and the upserts use ON CONFLICT ... DO UPDATE,
// which SQLite and PostgreSQL share.
type Store struct {
	db       *sql.DB
	postgres bool
}

var _ SnapshotStore = (*Store)(nil)

func (s *Store) Close() error { return s.db.Close() }

// rebind converts ? placeholders to $1..$n for the postgres driver.
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (s *Store) exec(query string, args ...any) error {
	_, err := s.db.Exec(s.rebind(query), args...)
	return err
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(s.rebind(query), args...)
}

// shiftDate returns date minus daysBack whole days.
func shiftDate(date string, daysBack int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("store: bad date key %q: %w", date, err)
	}
	return d.AddDate(0, 0, -daysBack).Format(DateLayout), nil
}

// UpsertMovies refreshes the catalog table. Identity is title_key, so
// re-ingestion updates rows in place.
func (s *Store) UpsertMovies(movies []*models.Movie) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	stmt := s.rebind(`
		INSERT INTO movies (title_key, title, release_date, trailer_url, trailer_kind)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (title_key) DO UPDATE SET
			title = excluded.title,
			release_date = excluded.release_date,
			trailer_url = excluded.trailer_url,
			trailer_kind = excluded.trailer_kind
	`)
	for _, m := range movies {
		if _, err := tx.Exec(stmt,
			m.TitleKey, m.Title, m.ReleaseDate.Format(DateLayout), m.TrailerURL, m.TrailerKind,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: upsert movie %q: %w", m.TitleKey, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit movies: %w", err)
	}
	return nil
}

// UpsertTrailer writes one trailer_daily row, replacing any existing
// row for the same (date, title_key, source). Re-fetching within the
// same day is last-write-wins.
func (s *Store) UpsertTrailer(snap *models.TrailerSnapshot) error {
	err := s.exec(`
		INSERT INTO trailer_daily (date, title_key, source, views, likes, comments, err)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date, title_key, source) DO UPDATE SET
			views = excluded.views,
			likes = excluded.likes,
			comments = excluded.comments,
			err = excluded.err
	`, snap.Date, snap.TitleKey, snap.Source, snap.Views, snap.Likes, snap.Comments, snap.TrailerStats.Err)
	if err != nil {
		return fmt.Errorf("store: upsert trailer_daily: %w", err)
	}
	return nil
}

// GetTrailer returns the trailer snapshot for the exact key, or
// (nil, nil) when no row exists.
func (s *Store) GetTrailer(date, titleKey, source string) (*models.TrailerSnapshot, error) {
	snap := &models.TrailerSnapshot{}
	var views, likes, comments sql.NullInt64
	err := s.queryRow(`
		SELECT date, title_key, source, views, likes, comments, err
		FROM trailer_daily
		WHERE date = ? AND title_key = ? AND source = ?
	`, date, titleKey, source).Scan(
		&snap.Date, &snap.TitleKey, &snap.Source, &views, &likes, &comments, &snap.TrailerStats.Err,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get trailer_daily: %w", err)
	}
	snap.Views = fromNull(views)
	snap.Likes = fromNull(likes)
	snap.Comments = fromNull(comments)
	return snap, nil
}

func (s *Store) GetTrailerRelative(date, titleKey, source string, daysBack int) (*models.TrailerSnapshot, error) {
	target, err := shiftDate(date, daysBack)
	if err != nil {
		return nil, err
	}
	return s.GetTrailer(target, titleKey, source)
}

// UpsertSocial writes one social_daily row (last-write-wins per key).
func (s *Store) UpsertSocial(snap *models.SocialSnapshot) error {
	err := s.exec(`
		INSERT INTO social_daily (date, title_key, title, posts_7d, eng_7d, err)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (date, title_key) DO UPDATE SET
			title = excluded.title,
			posts_7d = excluded.posts_7d,
			eng_7d = excluded.eng_7d,
			err = excluded.err
	`, snap.Date, snap.TitleKey, snap.Title, snap.Posts7d, snap.Eng7d, snap.SocialStats.Err)
	if err != nil {
		return fmt.Errorf("store: upsert social_daily: %w", err)
	}
	return nil
}

func (s *Store) GetSocial(date, titleKey string) (*models.SocialSnapshot, error) {
	snap := &models.SocialSnapshot{}
	var posts, eng sql.NullInt64
	err := s.queryRow(`
		SELECT date, title_key, title, posts_7d, eng_7d, err
		FROM social_daily
		WHERE date = ? AND title_key = ?
	`, date, titleKey).Scan(
		&snap.Date, &snap.TitleKey, &snap.Title, &posts, &eng, &snap.SocialStats.Err,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get social_daily: %w", err)
	}
	snap.Posts7d = fromNull(posts)
	snap.Eng7d = fromNull(eng)
	return snap, nil
}

func (s *Store) GetSocialRelative(date, titleKey string, daysBack int) (*models.SocialSnapshot, error) {
	target, err := shiftDate(date, daysBack)
	if err != nil {
		return nil, err
	}
	return s.GetSocial(target, titleKey)
}

// UpsertBoxOffice writes one boxoffice_daily row (last-write-wins per key).
func (s *Store) UpsertBoxOffice(snap *models.BoxOfficeSnapshot) error {
	err := s.exec(`
		INSERT INTO boxoffice_daily (date, title_key, tickets, cume, gross, screens, err)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date, title_key) DO UPDATE SET
			tickets = excluded.tickets,
			cume = excluded.cume,
			gross = excluded.gross,
			screens = excluded.screens,
			err = excluded.err
	`, snap.Date, snap.TitleKey, snap.Tickets, snap.Cume, snap.Gross, snap.Screens, snap.BoxOfficeStats.Err)
	if err != nil {
		return fmt.Errorf("store: upsert boxoffice_daily: %w", err)
	}
	return nil
}

func (s *Store) GetBoxOffice(date, titleKey string) (*models.BoxOfficeSnapshot, error) {
	snap := &models.BoxOfficeSnapshot{}
	var tickets, cume, gross, screens sql.NullInt64
	err := s.queryRow(`
		SELECT date, title_key, tickets, cume, gross, screens, err
		FROM boxoffice_daily
		WHERE date = ? AND title_key = ?
	`, date, titleKey).Scan(
		&snap.Date, &snap.TitleKey, &tickets, &cume, &gross, &screens, &snap.BoxOfficeStats.Err,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get boxoffice_daily: %w", err)
	}
	snap.Tickets = fromNull(tickets)
	snap.Cume = fromNull(cume)
	snap.Gross = fromNull(gross)
	snap.Screens = fromNull(screens)
	return snap, nil
}

func (s *Store) GetBoxOfficeRelative(date, titleKey string, daysBack int) (*models.BoxOfficeSnapshot, error) {
	target, err := shiftDate(date, daysBack)
	if err != nil {
		return nil, err
	}
	return s.GetBoxOffice(target, titleKey)
}

// RecordRun appends the audit row for one completed run.
func (s *Store) RecordRun(run *models.RunSummary) error {
	err := s.exec(`
		INSERT INTO runs (run_id, date, started_at, finished_at, catalog_size, titles_in_window, alert_count, fetch_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.Date,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.CatalogSize, run.TitlesInWindow, run.AlertCount, run.FetchErrors)
	if err != nil {
		return fmt.Errorf("store: record run: %w", err)
	}
	return nil
}

func fromNull(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

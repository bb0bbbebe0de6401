package storage

import (
	"testing"
	"time"

	"estrenos-monitor/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertTrailerIdempotent(t *testing.T) {
	s := newTestStore(t)

	snap := &models.TrailerSnapshot{
		Date:     "2026-08-31",
		TitleKey: "example film",
		Source:   models.TrailerYouTube,
		TrailerStats: models.TrailerStats{
			Views:    models.Int64(500),
			Likes:    models.Int64(10),
			Comments: models.Int64(2),
		},
	}

	if err := s.UpsertTrailer(snap); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.UpsertTrailer(snap); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetTrailer("2026-08-31", "example film", models.TrailerYouTube)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("snapshot missing after upsert")
	}
	if *got.Views != 500 || *got.Likes != 10 || *got.Comments != 2 {
		t.Errorf("values changed across identical upserts: %+v", got.TrailerStats)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM trailer_daily").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 row, got %d", count)
	}
}

func TestUpsertTrailerLastWriteWins(t *testing.T) {
	s := newTestStore(t)

	first := &models.TrailerSnapshot{
		Date: "2026-08-31", TitleKey: "example film", Source: models.TrailerYouTube,
		TrailerStats: models.TrailerStats{Views: models.Int64(500)},
	}
	second := &models.TrailerSnapshot{
		Date: "2026-08-31", TitleKey: "example film", Source: models.TrailerYouTube,
		TrailerStats: models.TrailerStats{Views: nil, Err: "rate limited"},
	}

	if err := s.UpsertTrailer(first); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertTrailer(second); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTrailer("2026-08-31", "example film", models.TrailerYouTube)
	if err != nil {
		t.Fatal(err)
	}
	if got.Views != nil {
		t.Errorf("expected the later payload's absent views, got %d", *got.Views)
	}
	if got.TrailerStats.Err != "rate limited" {
		t.Errorf("err tag: got %q, want %q", got.TrailerStats.Err, "rate limited")
	}
}

func TestGetTrailerAbsentIsNotAnError(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetTrailer("2026-08-31", "nobody", models.TrailerYouTube)
	if err != nil {
		t.Fatalf("missing row must not surface as error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil snapshot, got %+v", got)
	}
}

func TestGetTrailerRelative(t *testing.T) {
	s := newTestStore(t)

	yesterday := &models.TrailerSnapshot{
		Date: "2026-08-30", TitleKey: "example film", Source: models.TrailerYouTube,
		TrailerStats: models.TrailerStats{Views: models.Int64(600)},
	}
	if err := s.UpsertTrailer(yesterday); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTrailerRelative("2026-08-31", "example film", models.TrailerYouTube, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got.Views != 600 {
		t.Errorf("relative get (1 day back): got %+v, want views=600", got)
	}

	// Crossing a month boundary is still plain date arithmetic.
	if _, err := s.GetTrailerRelative("2026-09-01", "example film", models.TrailerYouTube, 30); err != nil {
		t.Errorf("relative get across month boundary: %v", err)
	}

	if _, err := s.GetTrailerRelative("31/08/2026", "example film", models.TrailerYouTube, 1); err == nil {
		t.Error("malformed date key should error")
	}
}

func TestUpsertSocialRoundTrip(t *testing.T) {
	s := newTestStore(t)

	snap := &models.SocialSnapshot{
		Date: "2026-08-31", TitleKey: "example film", Title: "Example Film",
		SocialStats: models.SocialStats{Posts7d: models.Int64(40), Eng7d: models.Int64(210)},
	}
	if err := s.UpsertSocial(snap); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSocial("2026-08-31", "example film")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got.Posts7d != 40 || *got.Eng7d != 210 || got.Title != "Example Film" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestUpsertBoxOfficeWithAdditiveColumns(t *testing.T) {
	s := newTestStore(t)

	snap := &models.BoxOfficeSnapshot{
		Date: "2026-08-31", TitleKey: "example film",
		BoxOfficeStats: models.BoxOfficeStats{
			Cume:    models.Int64(49988),
			Gross:   models.Int64(120000000),
			Screens: models.Int64(85),
		},
	}
	if err := s.UpsertBoxOffice(snap); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetBoxOffice("2026-08-31", "example film")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got.Cume != 49988 || *got.Gross != 120000000 || *got.Screens != 85 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Tickets != nil {
		t.Errorf("tickets were never written, expected absent, got %d", *got.Tickets)
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	s := newTestStore(t)
	// OpenSQLite already migrated once; a second pass must be a no-op,
	// including the additive ALTERs.
	if err := s.migrate(); err != nil {
		t.Fatalf("repeat migrate: %v", err)
	}
}

func TestUpsertMoviesReingestionUpdates(t *testing.T) {
	s := newTestStore(t)

	rel := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	v1 := []*models.Movie{{TitleKey: "example film", Title: "Example Film", ReleaseDate: rel}}
	v2 := []*models.Movie{{
		TitleKey: "example film", Title: "Example Film", ReleaseDate: rel,
		TrailerURL: "https://youtu.be/abc123DEF45", TrailerKind: models.TrailerYouTube,
	}}

	if err := s.UpsertMovies(v1); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertMovies(v2); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("re-ingestion duplicated the title: %d rows", count)
	}

	var url string
	if err := s.db.QueryRow("SELECT trailer_url FROM movies WHERE title_key = 'example film'").Scan(&url); err != nil {
		t.Fatal(err)
	}
	if url != "https://youtu.be/abc123DEF45" {
		t.Errorf("trailer_url not updated: %q", url)
	}
}

func TestRecordRun(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	run := &models.RunSummary{
		RunID: "test-run-id", Date: "2026-08-31",
		StartedAt: now, FinishedAt: now.Add(time.Minute),
		CatalogSize: 12, TitlesInWindow: 4, AlertCount: 1, FetchErrors: 2,
	}
	if err := s.RecordRun(run); err != nil {
		t.Fatal(err)
	}

	var alerts int
	if err := s.db.QueryRow("SELECT alert_count FROM runs WHERE run_id = 'test-run-id'").Scan(&alerts); err != nil {
		t.Fatal(err)
	}
	if alerts != 1 {
		t.Errorf("alert_count: got %d, want 1", alerts)
	}
}

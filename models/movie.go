package models

import (
	"strings"
	"time"
)

// Trailer kinds as classified from the catalog's trailer URL.
const (
	TrailerYouTube = "youtube"
	TrailerVimeo   = "vimeo"
	TrailerOther   = "other"
	TrailerNone    = ""
)

// Movie is one catalog entry. Identity is TitleKey: re-ingesting the
// catalog updates the same row instead of duplicating it.
type Movie struct {
	TitleKey    string
	Title       string
	ReleaseDate time.Time // calendar date; time component is always midnight
	TrailerURL  string
	TrailerKind string
}

// TrailerSourceKey maps a trailer kind to the source column value used
// by trailer_daily rows. Titles without a trailer still get one row per
// day, keyed "none", so their history stays queryable.
func TrailerSourceKey(kind string) string {
	if kind == TrailerNone {
		return "none"
	}
	return kind
}

// ClassifyTrailer maps a trailer URL to its kind.
func ClassifyTrailer(url string) string {
	u := strings.ToLower(strings.TrimSpace(url))
	switch {
	case u == "":
		return TrailerNone
	case strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be"):
		return TrailerYouTube
	case strings.Contains(u, "vimeo.com"):
		return TrailerVimeo
	default:
		return TrailerOther
	}
}

package storage

import "estrenos-monitor/models"

// SnapshotStore is the persistence contract the pipeline and report
// assembler depend on. Get methods return (nil, nil) when no row exists
// for the key: a missing snapshot is data (an absent reference), not a
// failure. The *Relative variants shift the date key back by whole days
// and delegate to the plain Get.
type SnapshotStore interface {
	UpsertMovies(movies []*models.Movie) error

	UpsertTrailer(snap *models.TrailerSnapshot) error
	GetTrailer(date, titleKey, source string) (*models.TrailerSnapshot, error)
	GetTrailerRelative(date, titleKey, source string, daysBack int) (*models.TrailerSnapshot, error)

	UpsertSocial(snap *models.SocialSnapshot) error
	GetSocial(date, titleKey string) (*models.SocialSnapshot, error)
	GetSocialRelative(date, titleKey string, daysBack int) (*models.SocialSnapshot, error)

	UpsertBoxOffice(snap *models.BoxOfficeSnapshot) error
	GetBoxOffice(date, titleKey string) (*models.BoxOfficeSnapshot, error)
	GetBoxOfficeRelative(date, titleKey string, daysBack int) (*models.BoxOfficeSnapshot, error)

	RecordRun(run *models.RunSummary) error
	Close() error
}

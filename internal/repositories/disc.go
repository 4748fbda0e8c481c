package repositories

import (
	"context"
	"database/sql"

	"github.com/desertthunder/musik/internal/models"
)

var _ models.Repository[*models.Disc] = (*DiscRepository)(nil)

var discs = table[*models.Disc]{
	name:  "discs",
	cols:  []string{"album_id", "discnumber", "disc_subtitle", "musicbrainz_discid"},
	order: "id ASC",
	filters: map[string]match{
		"id":                 exact,
		"album_id":           exact,
		"discnumber":         contains,
		"disc_subtitle":      contains,
		"musicbrainz_discid": contains,
	},
	fields: func(d *models.Disc) []any {
		return []any{&d.AlbumID, &d.DiscNumber, &d.DiscSubtitle, &d.MusicBrainzDiscID}
	},
	newT:   func() *models.Disc { return &models.Disc{} },
	setKey: func(d *models.Disc, id int64) { d.ID = id },
}

// DiscRepository implements models.Repository[*models.Disc].
type DiscRepository struct {
	db *sql.DB
}

// NewDiscRepository creates a new DiscRepository with the given database connection
func NewDiscRepository(db *sql.DB) *DiscRepository {
	return &DiscRepository{db: db}
}

func (r *DiscRepository) Create(ctx context.Context, disc *models.Disc) error {
	return discs.create(ctx, r.db, disc)
}

func (r *DiscRepository) Get(ctx context.Context, id int64) (*models.Disc, error) {
	return discs.get(ctx, r.db, id)
}

func (r *DiscRepository) Update(ctx context.Context, disc *models.Disc) error {
	return discs.update(ctx, r.db, disc)
}

// List retrieves discs matching every filter, ordered by id
func (r *DiscRepository) List(ctx context.Context, filters models.Filters) ([]*models.Disc, error) {
	return discs.list(ctx, r.db, filters)
}

// FindByAlbumNumber retrieves the disc of albumID with the given disc number.
//
// A nil number matches the album's unnumbered disc.
func (r *DiscRepository) FindByAlbumNumber(ctx context.Context, albumID int64, number *string) (*models.Disc, error) {
	return discs.findOne(ctx, r.db, "album_id = ? AND discnumber IS ?", albumID, number)
}

// FindByMusicBrainzID retrieves the disc with the given musicbrainz disc id
func (r *DiscRepository) FindByMusicBrainzID(ctx context.Context, mbid string) (*models.Disc, error) {
	return discs.findOne(ctx, r.db, "musicbrainz_discid = ?", mbid)
}

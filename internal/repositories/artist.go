package repositories

import (
	"context"
	"database/sql"

	"github.com/desertthunder/musik/internal/models"
)

var _ models.Repository[*models.Artist] = (*ArtistRepository)(nil)

var artists = table[*models.Artist]{
	name:  "artists",
	cols:  []string{"name", "name_sort", "musicbrainz_artistid"},
	order: "name_sort ASC, id ASC",
	filters: map[string]match{
		"id":                   exact,
		"name":                 contains,
		"name_sort":            contains,
		"musicbrainz_artistid": contains,
	},
	fields: func(a *models.Artist) []any {
		return []any{&a.Name, &a.NameSort, &a.MusicBrainzArtistID}
	},
	newT:   func() *models.Artist { return &models.Artist{} },
	setKey: func(a *models.Artist, id int64) { a.ID = id },
}

// ArtistRepository implements models.Repository[*models.Artist].
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a new [models.Artist] and assigns its id
func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	return artists.create(ctx, r.db, artist)
}

// Get retrieves an artist by id
func (r *ArtistRepository) Get(ctx context.Context, id int64) (*models.Artist, error) {
	return artists.get(ctx, r.db, id)
}

// Update modifies an existing artist
func (r *ArtistRepository) Update(ctx context.Context, artist *models.Artist) error {
	return artists.update(ctx, r.db, artist)
}

// List retrieves artists matching every filter, ordered by sort name
func (r *ArtistRepository) List(ctx context.Context, filters models.Filters) ([]*models.Artist, error) {
	return artists.list(ctx, r.db, filters)
}

// FindByMusicBrainzID retrieves the artist with the given musicbrainz artist id
func (r *ArtistRepository) FindByMusicBrainzID(ctx context.Context, mbid string) (*models.Artist, error) {
	return artists.findOne(ctx, r.db, "musicbrainz_artistid = ?", mbid)
}

// FindByName retrieves the first artist with exactly the given name
func (r *ArtistRepository) FindByName(ctx context.Context, name string) (*models.Artist, error) {
	return artists.findOne(ctx, r.db, "name = ?", name)
}

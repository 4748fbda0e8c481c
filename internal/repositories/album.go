package repositories

import (
	"context"
	"database/sql"

	"github.com/desertthunder/musik/internal/models"
)

var _ models.Repository[*models.Album] = (*AlbumRepository)(nil)

var albums = table[*models.Album]{
	name: "albums",
	cols: []string{
		"title", "title_sort", "artist_id", "asin", "barcode", "compilation", "media_type",
		"musicbrainz_albumid", "musicbrainz_albumstatus", "musicbrainz_albumtype", "organization", "releasecountry",
	},
	order: "title_sort ASC, id ASC",
	filters: map[string]match{
		"id":                      exact,
		"title":                   contains,
		"title_sort":              contains,
		"artist_id":               exact,
		"asin":                    contains,
		"barcode":                 contains,
		"compilation":             exact,
		"media_type":              contains,
		"musicbrainz_albumid":     contains,
		"musicbrainz_albumstatus": contains,
		"musicbrainz_albumtype":   contains,
		"organization":            contains,
		"releasecountry":          contains,
	},
	fields: func(a *models.Album) []any {
		return []any{
			&a.Title, &a.TitleSort, &a.ArtistID, &a.ASIN, &a.Barcode, &a.Compilation, &a.MediaType,
			&a.MusicBrainzAlbumID, &a.MusicBrainzAlbumStatus, &a.MusicBrainzAlbumType, &a.Organization, &a.ReleaseCountry,
		}
	},
	newT:   func() *models.Album { return &models.Album{} },
	setKey: func(a *models.Album, id int64) { a.ID = id },
}

// AlbumRepository implements models.Repository[*models.Album].
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	return albums.create(ctx, r.db, album)
}

func (r *AlbumRepository) Get(ctx context.Context, id int64) (*models.Album, error) {
	return albums.get(ctx, r.db, id)
}

func (r *AlbumRepository) Update(ctx context.Context, album *models.Album) error {
	return albums.update(ctx, r.db, album)
}

// List retrieves albums matching every filter, ordered by sort title
func (r *AlbumRepository) List(ctx context.Context, filters models.Filters) ([]*models.Album, error) {
	return albums.list(ctx, r.db, filters)
}

// FindByMusicBrainzID retrieves the album with the given musicbrainz album id
func (r *AlbumRepository) FindByMusicBrainzID(ctx context.Context, mbid string) (*models.Album, error) {
	return albums.findOne(ctx, r.db, "musicbrainz_albumid = ?", mbid)
}

// FindByTitleArtist retrieves the album with exactly this title recorded by artistID
func (r *AlbumRepository) FindByTitleArtist(ctx context.Context, title string, artistID int64) (*models.Album, error) {
	return albums.findOne(ctx, r.db, "title = ? AND artist_id = ?", title, artistID)
}

// FindByTitle retrieves the first album with exactly this title and no artist
func (r *AlbumRepository) FindByTitle(ctx context.Context, title string) (*models.Album, error) {
	return albums.findOne(ctx, r.db, "title = ? AND artist_id IS NULL", title)
}

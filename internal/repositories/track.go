package repositories

import (
	"context"
	"database/sql"

	"github.com/desertthunder/musik/internal/models"
)

var _ models.Repository[*models.Track] = (*TrackRepository)(nil)

var tracks = table[*models.Track]{
	name: "tracks",
	cols: []string{
		"uri", "artist_id", "album_id", "album_artist_id", "arranger_id", "author_id", "bpm",
		"composer_id", "conductor_id", "copyright", "date", "disc_id", "encodedby", "genre", "isrc",
		"length", "lyricist_id", "mood", "musicbrainz_trackid", "musicbrainz_trmid", "musicip_fingerprint",
		"musicip_puid", "performer_id", "title", "title_sort", "tracknumber", "subtitle", "website",
		"playcount", "rating",
	},
	order: "title_sort ASC, id ASC",
	filters: map[string]match{
		"id":                  exact,
		"uri":                 contains,
		"artist_id":           exact,
		"album_id":            exact,
		"album_artist_id":     exact,
		"arranger_id":         exact,
		"author_id":           exact,
		"bpm":                 exact,
		"composer_id":         exact,
		"conductor_id":        exact,
		"copyright":           contains,
		"date":                contains,
		"disc_id":             exact,
		"encodedby":           contains,
		"genre":               contains,
		"isrc":                contains,
		"length":              exact,
		"lyricist_id":         exact,
		"mood":                contains,
		"musicbrainz_trackid": contains,
		"musicbrainz_trmid":   contains,
		"musicip_fingerprint": contains,
		"musicip_puid":        contains,
		"performer_id":        exact,
		"title":               contains,
		"title_sort":          contains,
		"tracknumber":         exact,
		"subtitle":            contains,
		"website":             contains,
		"playcount":           exact,
		"rating":              exact,
	},
	fields: func(t *models.Track) []any {
		return []any{
			&t.URI, &t.ArtistID, &t.AlbumID, &t.AlbumArtistID, &t.ArrangerID, &t.AuthorID, &t.BPM,
			&t.ComposerID, &t.ConductorID, &t.Copyright, &t.Date, &t.DiscID, &t.EncodedBy, &t.Genre, &t.ISRC,
			&t.Length, &t.LyricistID, &t.Mood, &t.MusicBrainzTrackID, &t.MusicBrainzTRMID, &t.MusicIPFingerprint,
			&t.MusicIPPUID, &t.PerformerID, &t.Title, &t.TitleSort, &t.TrackNumber, &t.Subtitle, &t.Website,
			&t.PlayCount, &t.Rating,
		}
	},
	newT:   func() *models.Track { return &models.Track{} },
	setKey: func(t *models.Track, id int64) { t.ID = id },
}

// TrackRepository implements models.Repository[*models.Track].
//
// Tracks are unique by uri; importing the same file twice updates the existing row.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	return tracks.create(ctx, r.db, track)
}

func (r *TrackRepository) Get(ctx context.Context, id int64) (*models.Track, error) {
	return tracks.get(ctx, r.db, id)
}

func (r *TrackRepository) Update(ctx context.Context, track *models.Track) error {
	return tracks.update(ctx, r.db, track)
}

// List retrieves tracks matching every filter, ordered by sort title
func (r *TrackRepository) List(ctx context.Context, filters models.Filters) ([]*models.Track, error) {
	return tracks.list(ctx, r.db, filters)
}

// FindByURI retrieves the track stored for the file at uri
func (r *TrackRepository) FindByURI(ctx context.Context, uri string) (*models.Track, error) {
	return tracks.findOne(ctx, r.db, "uri = ?", uri)
}

// Save creates the track when it has no id yet and updates it otherwise.
func (r *TrackRepository) Save(ctx context.Context, track *models.Track) error {
	if track.ID == 0 {
		return r.Create(ctx, track)
	}
	return r.Update(ctx, track)
}

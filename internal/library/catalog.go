package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/musik/internal/models"
	"github.com/desertthunder/musik/internal/repositories"
	"github.com/desertthunder/musik/internal/shared"
)

// Catalog merges file metadata into the artist, album, disc and track tables.
//
// Values already stored always win over new tags; a differing tag is logged as a conflict.
type Catalog struct {
	artists *repositories.ArtistRepository
	albums  *repositories.AlbumRepository
	discs   *repositories.DiscRepository
	tracks  *repositories.TrackRepository
	reader  TagReader
	logger  *log.Logger
}

// NewCatalog creates a catalog over db. A nil reader reads ID3 tags.
func NewCatalog(db *sql.DB, reader TagReader, logger *log.Logger) *Catalog {
	if reader == nil {
		reader = ID3Reader{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Catalog{
		artists: repositories.NewArtistRepository(db),
		albums:  repositories.NewAlbumRepository(db),
		discs:   repositories.NewDiscRepository(db),
		tracks:  repositories.NewTrackRepository(db),
		reader:  reader,
		logger:  shared.WithLogger(logger, "component", "catalog"),
	}
}

// fill sets *dst to v when *dst is unset and reports whether it changed.
// A stored value that differs from v is kept and logged as a conflict.
func fill[T comparable](l *log.Logger, field string, owner fmt.Stringer, dst **T, v *T) bool {
	if v == nil {
		return false
	}
	if *dst == nil {
		val := *v
		*dst = &val
		return true
	}
	if **dst != *v {
		l.Warn("metadata conflict", "field", field, "owner", owner, "stored", **dst, "tag", *v)
	}
	return false
}

// ImportTrack creates or updates the track for the file at path.
//
// Files without readable tags are kept with metadata derived from their path:
// the title from the file name, the album from its directory and the artist from the directory above.
func (c *Catalog) ImportTrack(ctx context.Context, path string) (*models.Track, error) {
	if mt := MediaType(path); mt != "audio/mpeg" {
		c.logger.Info("unsupported media type, reading what tags exist", "path", path, "type", mt)
	}

	track, err := c.tracks.FindByURI(ctx, path)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		track = models.NewTrack(path)
	case err != nil:
		return nil, err
	default:
		c.logger.Info("track already in library, updating metadata", "path", path)
	}

	meta, err := c.reader.Read(path)
	if err != nil {
		c.logger.Error("cannot read tags, using path metadata only", "path", path, "error", err)
		meta = NewMetadata()
	}

	if err := c.applyTags(ctx, track, meta); err != nil {
		return nil, err
	}
	if err := c.applyPath(ctx, track); err != nil {
		return nil, err
	}

	if err := c.tracks.Save(ctx, track); err != nil {
		return nil, err
	}
	c.logger.Info("added track", "track", track)
	return track, nil
}

func (c *Catalog) applyTags(ctx context.Context, track *models.Track, m *Metadata) error {
	artist, err := c.findArtist(ctx, m.Get("artist"), m.Get("artistsort"), m.Get("musicbrainz_artistid"))
	if err != nil {
		return err
	}
	c.link(track, "artist", &track.ArtistID, artist)

	albumArtist, err := c.findArtist(ctx, m.Get("albumartist"), m.Get("albumartistsort"), nil)
	if err != nil {
		return err
	}
	if albumArtist == nil {
		albumArtist = artist
	}
	c.link(track, "album_artist", &track.AlbumArtistID, albumArtist)

	roles := []struct {
		field string
		dst   **int64
		name  string
		sort  string
	}{
		{"arranger", &track.ArrangerID, "arranger", ""},
		{"author", &track.AuthorID, "author", ""},
		{"composer", &track.ComposerID, "composer", "composersort"},
		{"conductor", &track.ConductorID, "conductor", ""},
		{"lyricist", &track.LyricistID, "lyricist", ""},
		{"performer", &track.PerformerID, "performer", ""},
	}
	for _, r := range roles {
		var sort *string
		if r.sort != "" {
			sort = m.Get(r.sort)
		}
		a, err := c.findArtist(ctx, m.Get(r.name), sort, nil)
		if err != nil {
			return err
		}
		c.link(track, r.field, r.dst, a)
	}

	album, err := c.findAlbum(ctx, m.Get("album"), m.Get("albumsort"), m.Get("musicbrainz_albumid"), track.ArtistID, m)
	if err != nil {
		return err
	}
	if album != nil {
		c.linkID(track, "album", &track.AlbumID, album.ID)
	}

	if track.AlbumID != nil {
		disc, err := c.findDisc(ctx, *track.AlbumID, m.Get("discnumber"), m.Get("discsubtitle"), m.Get("musicbrainz_discid"))
		if err != nil {
			return err
		}
		if disc != nil {
			c.linkID(track, "disc", &track.DiscID, disc.ID)
		}
	}

	l := c.logger
	fill(l, "bpm", track, &track.BPM, m.Int("bpm"))
	fill(l, "copyright", track, &track.Copyright, m.Get("copyright"))
	fill(l, "date", track, &track.Date, m.Get("date"))
	fill(l, "encodedby", track, &track.EncodedBy, m.Get("encodedby"))
	fill(l, "genre", track, &track.Genre, m.Get("genre"))
	fill(l, "isrc", track, &track.ISRC, m.Get("isrc"))
	fill(l, "length", track, &track.Length, m.Int("length"))
	fill(l, "mood", track, &track.Mood, m.Get("mood"))
	fill(l, "musicbrainz_trackid", track, &track.MusicBrainzTrackID, m.Get("musicbrainz_trackid"))
	fill(l, "musicbrainz_trmid", track, &track.MusicBrainzTRMID, m.Get("musicbrainz_trmid"))
	fill(l, "musicip_fingerprint", track, &track.MusicIPFingerprint, m.Get("musicip_fingerprint"))
	fill(l, "musicip_puid", track, &track.MusicIPPUID, m.Get("musicip_puid"))
	fill(l, "title", track, &track.Title, m.Get("title"))
	fill(l, "title_sort", track, &track.TitleSort, m.Get("titlesort"))
	fill(l, "tracknumber", track, &track.TrackNumber, m.Int("tracknumber"))
	fill(l, "subtitle", track, &track.Subtitle, m.Get("version"))
	fill(l, "website", track, &track.Website, m.Get("website"))

	playcount := models.Deref(m.PlayCount)
	if track.PlayCount == nil || *track.PlayCount < playcount {
		track.PlayCount = models.Int(playcount)
	}

	// never overwrite a rating the user already has
	if m.Rating != nil && track.Rating == nil {
		track.Rating = models.Int(*m.Rating)
	}

	return nil
}

// applyPath fills the title, artist and album the tags left unset from the file's location.
func (c *Catalog) applyPath(ctx context.Context, track *models.Track) error {
	dir, file := filepath.Split(track.URI)
	base := strings.TrimSuffix(file, filepath.Ext(file))
	if track.Title == nil {
		track.Title = models.String(base)
		track.TitleSort = models.String(base)
	}

	var dirs []string
	for _, d := range strings.Split(filepath.Clean(dir), string(filepath.Separator)) {
		if d != "" && d != "." {
			dirs = append(dirs, d)
		}
	}

	if len(dirs) > 1 && track.ArtistID == nil {
		name := dirs[len(dirs)-2]
		artist, err := c.findArtist(ctx, &name, nil, nil)
		if err != nil {
			return err
		}
		track.ArtistID = models.Int(artist.ID)
		if track.AlbumArtistID == nil {
			track.AlbumArtistID = models.Int(artist.ID)
		}
	}

	if len(dirs) > 0 && track.AlbumID == nil {
		title := dirs[len(dirs)-1]
		album, err := c.findAlbum(ctx, &title, nil, nil, track.ArtistID, nil)
		if err != nil {
			return err
		}
		if album != nil {
			track.AlbumID = models.Int(album.ID)
		}
	}

	return nil
}

func (c *Catalog) link(track *models.Track, field string, dst **int64, artist *models.Artist) {
	if artist != nil {
		c.linkID(track, field, dst, artist.ID)
	}
}

func (c *Catalog) linkID(track *models.Track, field string, dst **int64, id int64) {
	fill(c.logger, field, track, dst, &id)
}

// findArtist looks an artist up by musicbrainz id, then by name, and creates one when neither matches.
// It returns nil when there is nothing to look up.
func (c *Catalog) findArtist(ctx context.Context, name, nameSort, mbid *string) (*models.Artist, error) {
	var artist *models.Artist

	if mbid != nil {
		found, err := c.artists.FindByMusicBrainzID(ctx, *mbid)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if found != nil {
			artist = found
			changed := fill(c.logger, "name", artist, &artist.Name, name)
			changed = fill(c.logger, "name_sort", artist, &artist.NameSort, nameSort) || changed
			if changed {
				if err := c.artists.Update(ctx, artist); err != nil {
					return nil, err
				}
			}
		}
	}

	if artist != nil || name == nil {
		return artist, nil
	}

	found, err := c.artists.FindByName(ctx, *name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if found != nil {
		if fill(c.logger, "name_sort", found, &found.NameSort, nameSort) {
			if err := c.artists.Update(ctx, found); err != nil {
				return nil, err
			}
		}
		return found, nil
	}

	artist = models.NewArtist(*name)
	if nameSort != nil {
		artist.NameSort = models.String(*nameSort)
	}
	artist.MusicBrainzArtistID = mbid
	if err := c.artists.Create(ctx, artist); err != nil {
		return nil, err
	}
	c.logger.Debug("created artist", "artist", artist)
	return artist, nil
}

// findAlbum looks an album up by musicbrainz id, then by title and artist, and creates one when neither matches.
// Album tags from m fill any fields still unset.
func (c *Catalog) findAlbum(ctx context.Context, title, titleSort, mbid *string, artistID *int64, m *Metadata) (*models.Album, error) {
	var album *models.Album
	changed := false

	if mbid != nil {
		found, err := c.albums.FindByMusicBrainzID(ctx, *mbid)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if found != nil {
			album = found
			changed = fill(c.logger, "title", album, &album.Title, title) || changed
			changed = fill(c.logger, "title_sort", album, &album.TitleSort, titleSort) || changed
			changed = fill(c.logger, "artist_id", album, &album.ArtistID, artistID) || changed
		}
	}

	if album == nil && title != nil {
		var found *models.Album
		var err error
		if artistID != nil {
			found, err = c.albums.FindByTitleArtist(ctx, *title, *artistID)
		} else {
			found, err = c.albums.FindByTitle(ctx, *title)
		}
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		if found != nil {
			album = found
			changed = fill(c.logger, "title_sort", album, &album.TitleSort, titleSort) || changed
		} else {
			album = models.NewAlbum(*title)
			if titleSort != nil {
				album.TitleSort = models.String(*titleSort)
			}
			album.MusicBrainzAlbumID = mbid
			album.ArtistID = artistID
		}
	}

	if album == nil {
		return nil, nil
	}

	if m != nil {
		l := c.logger
		changed = fill(l, "asin", album, &album.ASIN, m.Get("asin")) || changed
		changed = fill(l, "barcode", album, &album.Barcode, m.Get("barcode")) || changed
		changed = fill(l, "compilation", album, &album.Compilation, m.Bool("compilation")) || changed
		changed = fill(l, "media_type", album, &album.MediaType, m.Get("media")) || changed
		changed = fill(l, "musicbrainz_albumstatus", album, &album.MusicBrainzAlbumStatus, m.Get("musicbrainz_albumstatus")) || changed
		changed = fill(l, "musicbrainz_albumtype", album, &album.MusicBrainzAlbumType, m.Get("musicbrainz_albumtype")) || changed
		changed = fill(l, "organization", album, &album.Organization, m.Get("organization")) || changed
		changed = fill(l, "releasecountry", album, &album.ReleaseCountry, m.Get("releasecountry")) || changed
	}

	switch {
	case album.ID == 0:
		if err := c.albums.Create(ctx, album); err != nil {
			return nil, err
		}
		c.logger.Debug("created album", "album", album)
	case changed:
		if err := c.albums.Update(ctx, album); err != nil {
			return nil, err
		}
	}
	return album, nil
}

// findDisc looks a disc of albumID up by musicbrainz id, then by number, and creates one when neither matches.
// It returns nil when the tags name no disc.
func (c *Catalog) findDisc(ctx context.Context, albumID int64, number, subtitle, mbid *string) (*models.Disc, error) {
	var disc *models.Disc

	if mbid != nil {
		found, err := c.discs.FindByMusicBrainzID(ctx, *mbid)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		disc = found
	}

	if disc == nil && number != nil {
		found, err := c.discs.FindByAlbumNumber(ctx, albumID, number)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		disc = found
	}

	if disc == nil {
		if number == nil {
			return nil, nil
		}
		disc = &models.Disc{AlbumID: models.Int(albumID), DiscNumber: number, DiscSubtitle: subtitle, MusicBrainzDiscID: mbid}
		if err := c.discs.Create(ctx, disc); err != nil {
			return nil, err
		}
		c.logger.Debug("created disc", "disc", disc)
		return disc, nil
	}

	id := albumID
	changed := fill(c.logger, "album_id", disc, &disc.AlbumID, &id)
	changed = fill(c.logger, "discnumber", disc, &disc.DiscNumber, number) || changed
	changed = fill(c.logger, "disc_subtitle", disc, &disc.DiscSubtitle, subtitle) || changed
	changed = fill(c.logger, "musicbrainz_discid", disc, &disc.MusicBrainzDiscID, mbid) || changed
	if changed {
		if err := c.discs.Update(ctx, disc); err != nil {
			return nil, err
		}
	}
	return disc, nil
}

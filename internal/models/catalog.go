package models

import (
	"fmt"
	"strings"
)

var (
	_ Model = (*Artist)(nil)
	_ Model = (*Album)(nil)
	_ Model = (*Disc)(nil)
	_ Model = (*Track)(nil)
)

// Artist is the person or persons responsible for some aspect of a [Track].
//
// Performers, composers, conductors, lyricists and the rest are all artists.
type Artist struct {
	ID                  int64   `json:"id"`
	Name                *string `json:"name"`
	NameSort            *string `json:"name_sort"`
	MusicBrainzArtistID *string `json:"musicbrainz_artistid"`
}

// NewArtist creates an artist whose sort name defaults to its name.
func NewArtist(name string) *Artist {
	return &Artist{Name: String(name), NameSort: String(name)}
}

func (a *Artist) Key() int64 { return a.ID }

func (a *Artist) Validate() error {
	if a.Name == nil && a.MusicBrainzArtistID == nil {
		return fmt.Errorf("artist requires a name or musicbrainz id")
	}
	return nil
}

func (a *Artist) String() string { return fmt.Sprintf("<Artist(name=%s)>", Deref(a.Name)) }

// Album is a collection of related tracks, with or without a physical release.
type Album struct {
	ID                     int64   `json:"id"`
	Title                  *string `json:"title"`
	TitleSort              *string `json:"title_sort"`
	ArtistID               *int64  `json:"artist_id"`
	ASIN                   *string `json:"asin"`
	Barcode                *string `json:"barcode"`
	Compilation            *bool   `json:"compilation"`
	MediaType              *string `json:"media_type"`
	MusicBrainzAlbumID     *string `json:"musicbrainz_albumid"`
	MusicBrainzAlbumStatus *string `json:"musicbrainz_albumstatus"`
	MusicBrainzAlbumType   *string `json:"musicbrainz_albumtype"`
	Organization           *string `json:"organization"`
	ReleaseCountry         *string `json:"releasecountry"`
}

// NewAlbum creates an album whose sort title defaults to its title.
func NewAlbum(title string) *Album {
	return &Album{Title: String(title), TitleSort: String(title)}
}

func (a *Album) Key() int64 { return a.ID }

func (a *Album) Validate() error {
	if a.Title == nil && a.MusicBrainzAlbumID == nil {
		return fmt.Errorf("album requires a title or musicbrainz id")
	}
	return nil
}

func (a *Album) String() string { return fmt.Sprintf("<Album(title=%s)>", Deref(a.Title)) }

// Disc is one platter of an album's physical release. LPs and cassettes get one disc per side.
type Disc struct {
	ID                int64   `json:"id"`
	AlbumID           *int64  `json:"album_id"`
	DiscNumber        *string `json:"discnumber"`
	DiscSubtitle      *string `json:"disc_subtitle"`
	MusicBrainzDiscID *string `json:"musicbrainz_discid"`
}

func (d *Disc) Key() int64 { return d.ID }

func (d *Disc) Validate() error {
	if d.AlbumID == nil {
		return fmt.Errorf("disc requires an album")
	}
	return nil
}

func (d *Disc) String() string {
	return fmt.Sprintf("<Disc(album=%d, discnumber=%s)>", Deref(d.AlbumID), Deref(d.DiscNumber))
}

// Track is a single audio file, usually one song, routine or chapter.
//
// Length is in milliseconds; Rating is 0-255 as stored in POPM frames.
type Track struct {
	ID                 int64   `json:"id"`
	URI                string  `json:"uri"`
	ArtistID           *int64  `json:"artist_id"`
	AlbumID            *int64  `json:"album_id"`
	AlbumArtistID      *int64  `json:"album_artist_id"`
	ArrangerID         *int64  `json:"arranger_id"`
	AuthorID           *int64  `json:"author_id"`
	BPM                *int64  `json:"bpm"`
	ComposerID         *int64  `json:"composer_id"`
	ConductorID        *int64  `json:"conductor_id"`
	Copyright          *string `json:"copyright"`
	Date               *string `json:"date"`
	DiscID             *int64  `json:"disc_id"`
	EncodedBy          *string `json:"encodedby"`
	Genre              *string `json:"genre"`
	ISRC               *string `json:"isrc"`
	Length             *int64  `json:"length"`
	LyricistID         *int64  `json:"lyricist_id"`
	Mood               *string `json:"mood"`
	MusicBrainzTrackID *string `json:"musicbrainz_trackid"`
	MusicBrainzTRMID   *string `json:"musicbrainz_trmid"`
	MusicIPFingerprint *string `json:"musicip_fingerprint"`
	MusicIPPUID        *string `json:"musicip_puid"`
	PerformerID        *int64  `json:"performer_id"`
	Title              *string `json:"title"`
	TitleSort          *string `json:"title_sort"`
	TrackNumber        *int64  `json:"tracknumber"`
	Subtitle           *string `json:"subtitle"`
	Website            *string `json:"website"`
	PlayCount          *int64  `json:"playcount"`
	Rating             *int64  `json:"rating"`
}

// NewTrack creates an empty track for the file at uri.
func NewTrack(uri string) *Track {
	return &Track{URI: uri}
}

func (t *Track) Key() int64 { return t.ID }

func (t *Track) Validate() error {
	if strings.TrimSpace(t.URI) == "" {
		return fmt.Errorf("track requires a uri")
	}
	if t.Rating != nil && (*t.Rating < 0 || *t.Rating > 255) {
		return fmt.Errorf("track rating %d out of range", *t.Rating)
	}
	return nil
}

func (t *Track) String() string {
	return fmt.Sprintf("<Track(title=%s, uri=%s)>", Deref(t.Title), t.URI)
}

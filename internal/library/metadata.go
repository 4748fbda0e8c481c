package library

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/desertthunder/musik/internal/shared"
)

// Metadata holds the tags read from one file, keyed by the catalog's field names.
type Metadata struct {
	Tags      map[string]string
	PlayCount *int64 // largest of the PCNT and POPM counters
	Rating    *int64 // POPM rating, 0-255
}

// NewMetadata creates empty metadata.
func NewMetadata() *Metadata {
	return &Metadata{Tags: map[string]string{}}
}

// Get returns the tag for key, or nil when it is missing or empty.
func (m *Metadata) Get(key string) *string {
	v, ok := m.Tags[key]
	if !ok || v == "" {
		return nil
	}
	return &v
}

// Int parses the leading number of key, so "3/12" is 3. Unparseable tags are nil.
func (m *Metadata) Int(key string) *int64 {
	v := m.Get(key)
	if v == nil {
		return nil
	}
	head, _, _ := strings.Cut(*v, "/")
	n, err := strconv.ParseInt(strings.TrimSpace(head), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// Bool parses key as a flag such as TCMP. Unparseable tags are nil.
func (m *Metadata) Bool(key string) *bool {
	v := m.Get(key)
	if v == nil {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(*v))
	if err != nil {
		return nil
	}
	return &b
}

// TagReader reads the tags of an audio file.
//
// Files without tags return an error wrapping [shared.ErrNoMetadata].
type TagReader interface {
	Read(path string) (*Metadata, error)
}

var _ TagReader = ID3Reader{}

// ID3Reader reads ID3v2 tags with [id3v2].
type ID3Reader struct{}

var textFrames = []struct{ id, key string }{
	{"TPE1", "artist"},
	{"TSOP", "artistsort"},
	{"TPE2", "albumartist"},
	{"TSO2", "albumartistsort"},
	{"TALB", "album"},
	{"TSOA", "albumsort"},
	{"TIT2", "title"},
	{"TSOT", "titlesort"},
	{"TIT3", "version"},
	{"TCON", "genre"},
	{"TCOM", "composer"},
	{"TSOC", "composersort"},
	{"TPE3", "conductor"},
	{"TPE4", "arranger"},
	{"TEXT", "lyricist"},
	{"TOLY", "author"},
	{"TBPM", "bpm"},
	{"TCOP", "copyright"},
	{"TDRC", "date"},
	{"TYER", "date"},
	{"TENC", "encodedby"},
	{"TSRC", "isrc"},
	{"TLEN", "length"},
	{"TMOO", "mood"},
	{"TRCK", "tracknumber"},
	{"TPOS", "discnumber"},
	{"TSST", "discsubtitle"},
	{"TMED", "media"},
	{"TPUB", "organization"},
	{"TCMP", "compilation"},
}

// userFrames maps lower-cased TXXX descriptions onto tag keys.
var userFrames = map[string]string{
	"musicbrainz artist id":             "musicbrainz_artistid",
	"musicbrainz album id":              "musicbrainz_albumid",
	"musicbrainz album status":          "musicbrainz_albumstatus",
	"musicbrainz album type":            "musicbrainz_albumtype",
	"musicbrainz album release country": "releasecountry",
	"musicbrainz disc id":               "musicbrainz_discid",
	"musicbrainz track id":              "musicbrainz_trackid",
	"musicbrainz trm id":                "musicbrainz_trmid",
	"musicip fingerprint":               "musicip_fingerprint",
	"musicip puid":                      "musicip_puid",
	"asin":                              "asin",
	"barcode":                           "barcode",
	"performer":                         "performer",
}

const musicBrainzOwner = "http://musicbrainz.org"

func (ID3Reader) Read(path string) (*Metadata, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidPath, path)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}
	defer tag.Close()

	if !tag.HasFrames() {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoMetadata, path)
	}

	meta := NewMetadata()

	for _, f := range textFrames {
		if _, set := meta.Tags[f.key]; set {
			continue
		}
		if text := firstValue(tag.GetTextFrame(f.id).Text); text != "" {
			meta.Tags[f.key] = text
		}
	}

	for _, fr := range tag.GetFrames("TXXX") {
		udf, ok := fr.(id3v2.UserDefinedTextFrame)
		if !ok {
			continue
		}
		if key, known := userFrames[strings.ToLower(udf.Description)]; known {
			if v := firstValue(udf.Value); v != "" {
				meta.Tags[key] = v
			}
		}
	}

	for _, fr := range tag.GetFrames("UFID") {
		ufid, ok := fr.(id3v2.UFIDFrame)
		if !ok || ufid.OwnerIdentifier != musicBrainzOwner {
			continue
		}
		if id := string(ufid.Identifier); id != "" {
			meta.Tags["musicbrainz_trackid"] = id
		}
	}

	for _, fr := range tag.GetFrames("WOAR") {
		if unk, ok := fr.(id3v2.UnknownFrame); ok {
			if url := strings.Trim(string(unk.Body), "\x00 "); url != "" {
				meta.Tags["website"] = url
			}
		}
	}

	var count int64
	for _, fr := range tag.GetFrames("PCNT") {
		if unk, ok := fr.(id3v2.UnknownFrame); ok {
			if n := new(big.Int).SetBytes(unk.Body); n.IsInt64() && n.Int64() > count {
				count = n.Int64()
			}
		}
	}
	for _, fr := range tag.GetFrames("POPM") {
		popm, ok := fr.(id3v2.PopularimeterFrame)
		if !ok {
			continue
		}
		if popm.Counter != nil && popm.Counter.IsInt64() && popm.Counter.Int64() > count {
			count = popm.Counter.Int64()
		}
		if meta.Rating == nil {
			r := int64(popm.Rating)
			meta.Rating = &r
		}
	}
	meta.PlayCount = &count

	return meta, nil
}

// firstValue returns the first of a null-separated ID3v2.4 value list.
func firstValue(s string) string {
	head, _, _ := strings.Cut(s, "\x00")
	return strings.TrimSpace(head)
}

// IsNoMetadata reports whether err means the file carried no tags.
func IsNoMetadata(err error) bool {
	return errors.Is(err, shared.ErrNoMetadata)
}

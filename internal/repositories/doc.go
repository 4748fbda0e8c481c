// Package repositories implements SQLite persistence for the catalog and the import queue.
//
// Each catalog repository handles create/get/update/list through a shared generic [table]
// description: the column list, the field pointers of the model, the default ordering and the
// allowlist of filterable columns.
//
// Key Implementations:
//   - [ArtistRepository] : Artists ordered by sort name, with musicbrainz id and name lookups
//   - [AlbumRepository] : Albums ordered by sort title, with (title, artist) lookups
//   - [DiscRepository] : Discs ordered by id, looked up by album and disc number
//   - [TrackRepository] : Tracks ordered by sort title, unique by file uri
//   - [ImportTaskRepository] : The FIFO import queue polled by the importer
//
// List filters come from URL key/value pairs. Key and foreign-key columns match exactly, text
// columns match as substrings (LIKE %value%), and keys outside a table's allowlist are ignored.
package repositories

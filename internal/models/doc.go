// Package models defines the catalog entities and persistence interfaces for the musik library.
//
// The package contains two categories of types:
//
// 1. Catalog entities, persisted in SQLite and served by the JSON API:
//   - [Artist] : A person or group credited on a track in any role
//   - [Album] : A collection of related tracks
//   - [Disc] : One physical platter or side of an album
//   - [Track] : A single audio file with its tag metadata
//
// 2. Queue entities:
//   - [ImportTask] : A uri waiting to be (or being) imported into the library
//
// Optional columns are pointers so that unset values encode as JSON null, matching the
// column-name keyed records the list endpoints return.
//
// The [Repository] interface defines standard create/read/update/list operations, and
// [Filters] carries the key/value query terms parsed from list URLs.
package models

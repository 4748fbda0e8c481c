// Package server provides HTTP routing, middleware, and the JSON API of the music library.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// Method filtering runs inside the middleware so CORS preflight requests are answered before it.
//
// # API
//
//	POST /api/importmedia/directory      queue a directory (form field "path")
//	GET  /api/importmedia/status         importer status as text
//	GET  /api/<kind>/[<key>/<value>/...] artists, albums, tracks or discs as a JSON array
//	GET  /api/stream/track/<id>          the track's file
//
// A path that is not a directory on the server is answered with 404 and the body
// "Couldn't find the path <path> on the target system". Unknown collections are 404s.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server

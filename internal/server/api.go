package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/musik/internal/library"
	"github.com/desertthunder/musik/internal/models"
	"github.com/desertthunder/musik/internal/repositories"
	"github.com/desertthunder/musik/internal/shared"
)

var (
	_ Handler = (*CatalogHandler)(nil)
	_ Handler = (*ImportHandler)(nil)
	_ Handler = (*StreamHandler)(nil)
)

// Collections are the catalog kinds served under /api/<kind>/.
var Collections = []string{"artists", "albums", "tracks", "discs"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

// CatalogHandler answers /api/<kind>/<key>/<value>/... queries with a JSON array.
//
// Key/value pairs are combined with AND and unknown keys are ignored.
type CatalogHandler struct {
	artists *repositories.ArtistRepository
	albums  *repositories.AlbumRepository
	tracks  *repositories.TrackRepository
	discs   *repositories.DiscRepository
	logger  *log.Logger
}

// NewCatalogHandler creates a catalog query handler over db.
func NewCatalogHandler(db *sql.DB, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{
		artists: repositories.NewArtistRepository(db),
		albums:  repositories.NewAlbumRepository(db),
		tracks:  repositories.NewTrackRepository(db),
		discs:   repositories.NewDiscRepository(db),
		logger:  handlerLogger(logger, "catalog"),
	}
}

func (h *CatalogHandler) Routes() []Route { return []Route{Get("/api/")} }

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segments := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/"), "/"), "/")
	kind := segments[0]
	filters := models.ParseFilterPath(segments[1:])

	var (
		result any
		err    error
	)
	switch kind {
	case "artists":
		result, err = h.artists.List(r.Context(), filters)
	case "albums":
		result, err = h.albums.List(r.Context(), filters)
	case "tracks":
		result, err = h.tracks.List(r.Context(), filters)
	case "discs":
		result, err = h.discs.List(r.Context(), filters)
	default:
		writeText(w, http.StatusNotFound, "text/plain; charset=utf-8", fmt.Sprintf("%v: %q", shared.ErrUnknownCollection, kind))
		return
	}

	if err != nil {
		h.logger.Error("catalog query failed", "kind", kind, "filters", filters, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.logger.Debug("catalog query", "kind", kind, "filters", filters)
	writeJSON(w, http.StatusOK, result)
}

// ImportHandler queues directories for import and reports queue status.
type ImportHandler struct {
	tasks  *repositories.ImportTaskRepository
	logger *log.Logger
}

// NewImportHandler creates an import queue handler over db.
func NewImportHandler(db *sql.DB, logger *log.Logger) *ImportHandler {
	return &ImportHandler{
		tasks:  repositories.NewImportTaskRepository(db),
		logger: handlerLogger(logger, "import"),
	}
}

func (h *ImportHandler) Routes() []Route {
	return []Route{Post("/api/importmedia/directory"), Get("/api/importmedia/status")}
}

func (h *ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/importmedia/directory":
		h.directory(w, r)
	case "/api/importmedia/status":
		h.status(w, r)
	default:
		http.NotFound(w, r)
	}
}

// MissingPathMessage is the 404 body for a path that is not a directory on this host.
func MissingPathMessage(path string) string {
	return fmt.Sprintf("Couldn't find the path %s on the target system", path)
}

func (h *ImportHandler) directory(w http.ResponseWriter, r *http.Request) {
	path := r.FormValue("path")

	info, err := os.Stat(path)
	if path == "" || err != nil || !info.IsDir() {
		h.logger.Warn("rejected import", "path", path, "error", shared.ErrInvalidPath)
		writeText(w, http.StatusNotFound, "text/plain; charset=utf-8", MissingPathMessage(path))
		return
	}

	task, err := h.tasks.Enqueue(r.Context(), path)
	if err != nil {
		h.logger.Error("failed to queue import", "path", path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.logger.Info("queued import", "task", task)
	writeJSON(w, http.StatusOK, nil)
}

// StatusText describes the importer's state for the status endpoint.
func StatusText(current *models.ImportTask, pending int) string {
	var b strings.Builder
	if current != nil {
		fmt.Fprintf(&b, "The importer is currently processing %s.<br />", current.URI)
	}
	if pending == 0 {
		b.WriteString("There are no tasks currently pending")
	} else {
		fmt.Fprintf(&b, "There are %d tasks currently pending", pending)
	}
	return b.String()
}

func (h *ImportHandler) status(w http.ResponseWriter, r *http.Request) {
	pending, err := h.tasks.PendingCount(r.Context())
	if err != nil {
		h.logger.Error("failed to count tasks", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	current, err := h.tasks.Current(r.Context())
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		h.logger.Error("failed to read current task", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeText(w, http.StatusOK, "text/html; charset=utf-8", StatusText(current, pending))
}

// StreamHandler serves the stored file of a track at /api/stream/track/<id>.
type StreamHandler struct {
	tracks *repositories.TrackRepository
	logger *log.Logger
}

// NewStreamHandler creates a track streaming handler over db.
func NewStreamHandler(db *sql.DB, logger *log.Logger) *StreamHandler {
	return &StreamHandler{
		tracks: repositories.NewTrackRepository(db),
		logger: handlerLogger(logger, "stream"),
	}
}

func (h *StreamHandler) Routes() []Route { return []Route{Get("/api/stream/track/")} }

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/stream/track/"), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("%v: track id %q", shared.ErrInvalidArgument, raw), http.StatusBadRequest)
		return
	}

	track, err := h.tracks.Get(r.Context(), id)
	if errors.Is(err, shared.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("failed to look up track", "id", id, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	f, err := os.Open(track.URI)
	if err != nil {
		h.logger.Error("cannot open track for streaming", "track", track, "error", err)
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if mt := library.MediaType(track.URI); mt != "" {
		w.Header().Set("Content-Type", mt)
	}
	h.logger.Info("streaming track", "track", track)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// APIHandlers returns every JSON API handler over db.
func APIHandlers(db *sql.DB, logger *log.Logger) []Handler {
	return []Handler{
		NewCatalogHandler(db, logger),
		NewImportHandler(db, logger),
		NewStreamHandler(db, logger),
	}
}

package web

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/desertthunder/musik/internal/models"
	"github.com/desertthunder/musik/internal/server"
	"github.com/desertthunder/musik/internal/shared"
	"github.com/desertthunder/musik/internal/webclient"
)

var funcs = template.FuncMap{
	"text":   models.Deref[string],
	"number": formatNumber,
}

func formatNumber(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func (p *Pages) Routes() []server.Route {
	return []server.Route{
		server.Get("/{$}"),
		{Methods: []string{http.MethodGet, http.MethodHead, http.MethodPost}, Path: "/importmedia"},
		server.Get("/artists"),
		server.Get("/albums"),
	}
}

func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		p.index(w, r)
	case "/importmedia":
		p.importMedia(w, r)
	case "/artists":
		p.artistPages(w, r)
	case "/albums":
		p.albumPages(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (p *Pages) render(w http.ResponseWriter, name string, status int, data any) {
	var buf bytes.Buffer
	if err := p.templates[name].Execute(&buf, data); err != nil {
		p.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type indexData struct {
	Title   string
	Artists template.HTML
	Albums  template.HTML
}

// index fires the ready event against a fresh page so both lists load before rendering.
func (p *Pages) index(w http.ResponseWriter, r *http.Request) {
	page := webclient.NewPage(webclient.ArtistSource.Region, webclient.AlbumSource.Region)
	loader := webclient.NewListLoader(p.api, page, p.logger)

	d := webclient.NewDispatcher()
	c := webclient.NewController(d, nil, loader, p.logger)
	c.Register()
	defer c.Unregister()

	d.Dispatch(r.Context(), webclient.EventReady, nil)

	// RenderList output is escaped by html/template.
	p.render(w, "index", http.StatusOK, indexData{
		Title:   "Library",
		Artists: template.HTML(page.Block(webclient.ArtistSource.Region).HTML()),
		Albums:  template.HTML(page.Block(webclient.AlbumSource.Region).HTML()),
	})
}

type importData struct {
	Title      string
	Path       string
	Error      string
	ShowErrors bool
	Focus      string
	Alerts     []string
}

func (p *Pages) importMedia(w http.ResponseWriter, r *http.Request) {
	data := importData{Title: "Import media", Focus: webclient.PathField}
	if r.Method != http.MethodPost {
		p.render(w, "importmedia", http.StatusOK, data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := webclient.NewForm(r.PostForm)
	d := webclient.NewDispatcher()
	c := webclient.NewController(d, webclient.NewImportForm(p.api, view, p.logger), nil, p.logger)
	c.Register()
	defer c.Unregister()

	d.Dispatch(r.Context(), webclient.EventSubmit, &webclient.Submission{})
	p.logger.Info("import form submitted", "path", view.Value(webclient.PathField), "outcome", c.LastOutcome().Kind)

	data.Path = view.Value(webclient.PathField)
	data.Error = view.Error(webclient.ErrorRegionTop)
	data.ShowErrors = view.ErrorsVisible()
	data.Alerts = view.Alerts()
	if f := view.Focused(); f != "" {
		data.Focus = f
	}
	p.render(w, "importmedia", http.StatusOK, data)
}

// lookupID parses the ?id= query parameter. ok is false when it is absent.
func lookupID(r *http.Request) (id int64, ok bool, err error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, true, shared.ErrInvalidArgument
	}
	return id, true, nil
}

func (p *Pages) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidArgument):
		http.Error(w, "invalid id", http.StatusBadRequest)
	case errors.Is(err, shared.ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	default:
		p.logger.Error("page query failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type artistsData struct {
	Title   string
	Artists []*models.Artist
}

type artistData struct {
	Title  string
	Artist *models.Artist
	Albums []*models.Album
}

func (p *Pages) artistPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok, err := lookupID(r)
	if err != nil {
		p.fail(w, err)
		return
	}

	if !ok {
		artists, err := p.artists.List(ctx, nil)
		if err != nil {
			p.fail(w, err)
			return
		}
		p.render(w, "artists", http.StatusOK, artistsData{Title: "Artists", Artists: artists})
		return
	}

	artist, err := p.artists.Get(ctx, id)
	if err != nil {
		p.fail(w, err)
		return
	}
	albums, err := p.albums.List(ctx, models.Filters{{Key: "artist_id", Value: strconv.FormatInt(id, 10)}})
	if err != nil {
		p.fail(w, err)
		return
	}
	p.render(w, "artist", http.StatusOK, artistData{Title: models.Deref(artist.Name), Artist: artist, Albums: albums})
}

type albumsData struct {
	Title  string
	Albums []*models.Album
}

type albumData struct {
	Title  string
	Album  *models.Album
	Artist *models.Artist
	Tracks []*models.Track
}

func (p *Pages) albumPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok, err := lookupID(r)
	if err != nil {
		p.fail(w, err)
		return
	}

	if !ok {
		albums, err := p.albums.List(ctx, nil)
		if err != nil {
			p.fail(w, err)
			return
		}
		p.render(w, "albums", http.StatusOK, albumsData{Title: "Albums", Albums: albums})
		return
	}

	album, err := p.albums.Get(ctx, id)
	if err != nil {
		p.fail(w, err)
		return
	}

	data := albumData{Title: models.Deref(album.Title), Album: album}
	if album.ArtistID != nil {
		if data.Artist, err = p.artists.Get(ctx, *album.ArtistID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			p.fail(w, err)
			return
		}
	}

	data.Tracks, err = p.tracks.List(ctx, models.Filters{{Key: "album_id", Value: strconv.FormatInt(id, 10)}})
	if err != nil {
		p.fail(w, err)
		return
	}
	p.render(w, "album", http.StatusOK, data)
}

// Package web serves the library's server-rendered pages.
//
// # Pages
//
//	GET  /            → artist and album lists, loaded from the JSON API by a [webclient.ListLoader]
//	GET  /importmedia → import form
//	POST /importmedia → runs [webclient.ImportForm] and re-renders with the inline error or alert
//	GET  /artists     → every artist; ?id= shows one artist and their albums
//	GET  /albums      → every album; ?id= shows one album and its tracks
//
// The index and import pages go through the same [webclient.Controller] a browser host would:
// a [webclient.Dispatcher] fires the ready and submit events and in-memory views
// ([webclient.Page], [webclient.Form]) capture what the handlers render.
//
// The artist and album pages read the catalog directly through the repositories.
package web

import (
	"database/sql"
	"embed"
	"fmt"
	"html/template"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/musik/internal/repositories"
	"github.com/desertthunder/musik/internal/server"
	"github.com/desertthunder/musik/internal/shared"
	"github.com/desertthunder/musik/internal/webclient"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index", "importmedia", "artists", "artist", "albums", "album"}

var _ server.Handler = (*Pages)(nil)

// Pages renders every page of the web interface.
type Pages struct {
	api       webclient.Requester
	artists   *repositories.ArtistRepository
	albums    *repositories.AlbumRepository
	tracks    *repositories.TrackRepository
	templates map[string]*template.Template
	logger    *log.Logger
}

// NewPages creates the page handler. api is how the index and import pages reach the JSON API.
func NewPages(db *sql.DB, api webclient.Requester, logger *log.Logger) (*Pages, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Pages{
		api:       api,
		artists:   repositories.NewArtistRepository(db),
		albums:    repositories.NewAlbumRepository(db),
		tracks:    repositories.NewTrackRepository(db),
		templates: templates,
		logger:    shared.WithLogger(logger, "handler", "pages"),
	}, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

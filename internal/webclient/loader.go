package webclient

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/musik/internal/shared"
)

// Region is a render target whose whole content can be replaced.
type Region interface {
	SetHTML(markup string)
}

// Regions resolves a region by name. It returns nil for regions the host does not have.
type Regions interface {
	Region(name string) Region
}

// ListSource pairs a listing endpoint with the field each item displays and the region it renders into.
type ListSource struct {
	Endpoint string
	Field    string
	Region   string
}

var (
	ArtistSource = ListSource{Endpoint: "/api/artists/", Field: "name", Region: "artist-list"}
	AlbumSource  = ListSource{Endpoint: "/api/albums/", Field: "title", Region: "album-list"}
)

// DefaultSources are the lists shown on the index page.
var DefaultSources = []ListSource{ArtistSource, AlbumSource}

var listTemplate = template.Must(template.New("list").Parse(`<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>`))

// RenderList builds an unordered list with one item per record showing field.
func RenderList(records Records, field string) (string, error) {
	items := make([]string, len(records))
	for i, rec := range records {
		items[i] = rec.Field(field)
	}

	var b strings.Builder
	if err := listTemplate.Execute(&b, items); err != nil {
		return "", fmt.Errorf("failed to render list: %w", err)
	}
	return b.String(), nil
}

// ListLoader fills list regions from the listing endpoints.
type ListLoader struct {
	requester Requester
	regions   Regions
	sources   []ListSource
	logger    *log.Logger
}

// NewListLoader creates a loader for sources, or [DefaultSources] when none are given.
func NewListLoader(requester Requester, regions Regions, logger *log.Logger, sources ...ListSource) *ListLoader {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ListLoader{
		requester: requester,
		regions:   regions,
		sources:   sources,
		logger:    shared.WithLogger(logger, "component", "list-loader"),
	}
}

// Load fetches every source concurrently and replaces each region's content as its response arrives.
//
// A source that fails leaves its region untouched. Load waits for all sources and
// returns the first failure, if any.
func (l *ListLoader) Load(ctx context.Context) error {
	var g errgroup.Group
	for _, src := range l.sources {
		g.Go(func() error {
			if err := l.load(ctx, src); err != nil {
				l.logger.Debug("list not loaded", "endpoint", src.Endpoint, "error", err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

func (l *ListLoader) load(ctx context.Context, src ListSource) error {
	records, err := Fetch(ctx, l.requester, src.Endpoint)
	if err != nil {
		return err
	}

	markup, err := RenderList(records, src.Field)
	if err != nil {
		return err
	}

	region := l.regions.Region(src.Region)
	if region == nil {
		return fmt.Errorf("%w: no region %q", shared.ErrNotFound, src.Region)
	}
	region.SetHTML(markup)
	return nil
}

// Fetch requests a listing endpoint and decodes its collection.
func Fetch(ctx context.Context, requester Requester, endpoint string) (Records, error) {
	resp, err := requester.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s returned %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}
	return DecodeRecords(resp.Body)
}

package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/musik/internal/formatter"
	"github.com/desertthunder/musik/internal/library"
	"github.com/desertthunder/musik/internal/server"
	"github.com/desertthunder/musik/internal/shared"
	"github.com/desertthunder/musik/internal/webclient"
)

// Import submits a directory through the server's import form, or queues it locally with --local.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")

	if cmd.Bool("local") {
		return r.importLocal(ctx, path, cmd.Bool("wait"))
	}

	view := webclient.NewForm(url.Values{webclient.PathField: {path}})
	outcome := webclient.NewImportForm(r.client, view, r.logger).Submit(ctx, &webclient.Submission{})

	for _, alert := range view.Alerts() {
		r.writePlain("%s\n", alert)
	}

	switch outcome.Kind {
	case webclient.Accepted, webclient.Rejected:
		if outcome.Kind == webclient.Rejected && len(view.Alerts()) == 0 {
			return fmt.Errorf("%w: import returned %d", shared.ErrAPIRequest, outcome.StatusCode)
		}
		return nil
	case webclient.Invalid:
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, view.Error(webclient.ErrorRegionTop))
	default:
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, outcome.Err)
	}
}

func (r *Runner) importLocal(ctx context.Context, path string, wait bool) error {
	if path == "" {
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, webclient.MessageEmptyPath)
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", shared.ErrInvalidPath, server.MissingPathMessage(path))
	}

	db, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer db.Close()

	progress := make(chan library.ProgressUpdate, 64)
	importer := library.NewImporter(db, r.logger, library.ImporterOpts{Progress: progress})

	task, err := importer.Enqueue(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to queue %s: %w", path, err)
	}
	r.writePlain("queued %s as task %d\n", path, task.ID)

	if !wait {
		return nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("[%d/%d] %s %s\n", update.Step, update.Total, update.Phase, update.Message)
		}
	}()

	err = importer.Drain(ctx)
	close(progress)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("import interrupted: %w", err)
	}
	r.writePlainln("import complete")
	return nil
}

// Status prints the importer status reported by the server.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	resp, err := r.client.Get(ctx, "/api/importmedia/status")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	r.writePlainHeader("Importer")
	return r.writePlain("%s\n", strings.ReplaceAll(string(resp.Body), "<br />", "\n"))
}

// CollectionPath builds /api/<kind>/<key>/<value>/... for a listing query.
func CollectionPath(kind string, terms []string) (string, error) {
	if kind == "" {
		return "", fmt.Errorf("%w: collection (one of %s)", shared.ErrMissingArgument, strings.Join(server.Collections, ", "))
	}
	if !slices.Contains(server.Collections, kind) {
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownCollection, kind)
	}
	if len(terms)%2 != 0 {
		return "", fmt.Errorf("%w: filter %q has no value", shared.ErrInvalidArgument, terms[len(terms)-1])
	}

	segments := []string{"api", kind}
	for _, term := range terms {
		segments = append(segments, url.PathEscape(term))
	}
	return "/" + strings.Join(segments, "/") + "/", nil
}

// List prints a catalog collection fetched from the JSON API.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	kind := ""
	if len(args) > 0 {
		kind = args[0]
		args = args[1:]
	}

	path, err := CollectionPath(kind, args)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	records, err := webclient.Fetch(ctx, r.client, path)
	if err != nil {
		return err
	}
	r.logger.Debug("listed collection", "path", path, "count", len(records))

	if out := cmd.String("output"); out != "" {
		if err := formatter.WriteExport(format, kind, records, out); err != nil {
			return err
		}
		return r.writePlain("wrote %d %s to %s\n", len(records), kind, out)
	}

	data, err := formatter.Export(format, kind, records)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

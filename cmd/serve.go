package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/musik/internal/library"
	"github.com/desertthunder/musik/internal/server"
	"github.com/desertthunder/musik/internal/shared"
	"github.com/desertthunder/musik/internal/web"
	"github.com/desertthunder/musik/internal/webclient"
)

// Serve runs the HTTP server and the background importer until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = int(port)
	}

	probe := *r.config
	probe.Server = cfg
	if err := probe.Validate(); err != nil {
		return err
	}

	db, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer db.Close()

	pages, err := web.NewPages(db, webclient.NewClient(cfg.APIBaseURL(), r.httpClient), r.logger)
	if err != nil {
		return fmt.Errorf("failed to load pages: %w", err)
	}

	handlers := append(server.APIHandlers(db, r.logger), pages)
	srv := server.New(cfg, r.logger, handlers...)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })

	if !cmd.Bool("no-importer") {
		importer := library.NewImporter(db, r.logger, library.ImporterOpts{PollInterval: r.config.Importer.Interval()})
		g.Go(func() error { return importer.Run(gctx) })
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(cfg.APIBaseURL() + "/"); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}

	r.logger.Info("serving library", "addr", cfg.Addr(), "url", cfg.APIBaseURL(), "database", r.config.Database.Path)
	return g.Wait()
}

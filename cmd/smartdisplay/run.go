package main

import (
	"errors"

	"github.com/mohammad-safakhou/smartdisplay/internal/app"
	"github.com/mohammad-safakhou/smartdisplay/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runCMD(cfgPath *string) *cobra.Command {
	var serve bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render on schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			d, err := bootstrap(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer d.close()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return app.NewScheduler(d.app, logger("SCHED")).Run(gctx)
			})
			if serve {
				g.Go(func() error {
					return server.New(d.app, logger("HTTP")).Start(gctx, d.listenAddr())
				})
			}
			if err := g.Wait(); err != nil && !errors.Is(err, ctx.Err()) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&serve, "serve", false, "also serve the web UI")
	return cmd
}

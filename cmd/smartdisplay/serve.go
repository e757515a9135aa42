package main

import (
	"github.com/mohammad-safakhou/smartdisplay/internal/server"
	"github.com/spf13/cobra"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the settings UI and preview server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			d, err := bootstrap(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer d.close()

			if addr == "" {
				addr = d.listenAddr()
			}
			return server.New(d.app, logger("HTTP")).Start(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config or settings)")
	return cmd
}

package main

import (
	"fmt"

	"github.com/mohammad-safakhou/smartdisplay/internal/panel"
	"github.com/spf13/cobra"
)

func renderCMD(cfgPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame and show it, or write it with --out",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			d, err := bootstrap(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer d.close()

			widgets := d.app.Widgets()
			if out == "" {
				d.app.RenderOnce(ctx, widgets)
				return nil
			}
			if err := panel.WritePNG(out, d.app.RenderImage(ctx, widgets)); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the rendered canvas to this PNG file")
	return cmd
}

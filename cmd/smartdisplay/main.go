// Command smartdisplay renders calendar, news, market and weather data onto
// an e-paper panel or a PNG preview, and serves a small settings UI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var cfgPath string
	root := &cobra.Command{
		Use:          "smartdisplay",
		Short:        "Personal e-paper status display",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "runtime config file (default ./smartdisplay.yaml)")

	root.AddCommand(runCMD(&cfgPath), serveCMD(&cfgPath), renderCMD(&cfgPath))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

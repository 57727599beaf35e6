// Package cmd defines and implements the CLI commands for the webpdf
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/WorkOfStan/web-pages-to-pdf/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webpdf",
		Short: "Convert bookmark exports into a tag-organized tree of PDFs.",
		Long: `webpdf reads a bookmarking-service export (CSV or HTML) and renders
every link to a PDF with headless Chrome, organized into one directory per
primary tag. Links that are unreachable or fail to render fall back to the
most recent Wayback Machine snapshot.`,
	}

	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	cmd.AddCommand(newCaptureCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

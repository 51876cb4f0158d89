// Package cli is the composition root: it parses flags, loads
// configuration, constructs the adapters, and hands control to either
// a one-shot pipeline run or the HTTP server.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/logging"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:          "clipforge",
		Short:        "Cut vertical captioned shorts from long-form video",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	process := &cobra.Command{
		Use:   "process <path-or-url>",
		Short: "Process one video into shorts and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, configPath, args[0])
		},
	}
	process.Flags().Int("clips", 0, "Number of shorts to produce")
	process.Flags().Int("duration", 0, "Target clip duration seconds")
	process.Flags().String("style", "", "Caption style preset")
	process.Flags().String("language", "", "Transcription language code")
	process.Flags().String("watermark", "", "Watermark text")
	process.Flags().String("color", "", "Caption text color (#RRGGBB)")
	process.Flags().String("bg-color", "", "Caption background color (#RRGGBB)")
	process.Flags().Int("font-size", 0, "Caption font size")
	process.Flags().Float64("start", -1, "Only process the source from this second")
	process.Flags().Float64("end", -1, "Only process the source up to this second")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}
	serve.Flags().String("addr", "", "Listen address (overrides config)")

	root.AddCommand(process, serve)
	return root
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/objmodel/rtti"
	_ "omibyte.io/objmodel/str"
	_ "omibyte.io/objmodel/vector"
)

var (
	verbose string
	logger  *slog.Logger

	rootCmd = &cobra.Command{
		Use:           "rtti",
		Short:         "Inspect and exercise the runtime type model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseVerbosity(verbose)
			if err != nil {
				return err
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			rtti.Global.SetLogger(logger)

			// Every package has registered its types by now
			return rtti.Global.Seal()
		},
	}
)

// levelQuiet is above every level slog emits.
const levelQuiet = slog.Level(100)

func parseVerbosity(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "quiet":
		return levelQuiet, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("unknown verbosity %q (want quiet, info, warning or debug)", s)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&verbose, "verbose", "v", "", "verbosity level (quiet, info, warning, debug)")
	rootCmd.AddCommand(demoCmd, typesCmd, layoutCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rtti:", err)
		os.Exit(1)
	}
}

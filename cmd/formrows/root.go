package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/pkg/source"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	verbose    bool
	configFile string
	logger     *slog.Logger
}

func newRootCommand() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "formrows",
		Short:         "Add, remove and populate repeatable rows of contact form pages.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			g.logger = newLogger(cmd.ErrOrStderr(), g.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log debug diagnostics to stderr")
	cmd.PersistentFlags().StringVar(&g.configFile, "config", "", "config file (defaults to ./.formrows.yaml when present)")

	addApply(cmd, g)
	addInteractive(cmd, g)
	addGroups(cmd, g)
	addScaffold(cmd, g)
	addServe(cmd, g)
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// optionalSource turns an optional path or URL flag into a Source.
func optionalSource(raw string) (source.Source, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return source.Parse(raw)
}

func (g *globalOptions) writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	g.logger.Debug("page written", "file", path, "size", humanize.Bytes(uint64(len(data))))
	return nil
}

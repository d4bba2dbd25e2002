package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/practicelink/internal/version"
)

type rootFlags struct {
	credsFile string
	verbose   bool
	asJSON    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "plink",
		Short:         "Find practice links for interview write-ups",
		Version:       version.Version,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&flags.credsFile, "creds", "c", "", "path to credentials file (INI)")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "log SDK operations to stderr")
	root.PersistentFlags().BoolVar(&flags.asJSON, "json", false, "print JSON instead of markdown")

	root.AddCommand(newEnrichCmd(flags), newMatchCmd(flags))
	return root
}

func (f *rootFlags) logger(w io.Writer) *slog.Logger {
	if !f.verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

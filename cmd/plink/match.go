package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	practicelink "github.com/kailas-cloud/practicelink/pkg/sdk"
)

func newMatchCmd(flags *rootFlags) *cobra.Command {
	var (
		text  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match text against the curated problem catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := practicelink.New(practicelink.WithLogger(flags.logger(cmd.ErrOrStderr())))
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			matches, err := client.Match(cmd.Context(), text, limit)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			return printMatches(cmd.OutOrStdout(), matches, flags.asJSON)
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "text to match")
	_ = cmd.MarkFlagRequired("text")
	cmd.Flags().IntVarP(&limit, "max", "n", 3, "maximum matches (1-10)")
	return cmd
}

func printMatches(w io.Writer, matches []practicelink.Match, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(matches)
	}
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "No curated matches.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TYPE\tSITE\tTITLE\tURL")
	for _, m := range matches {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Type, m.Site, m.Title, m.URL)
	}
	return tw.Flush()
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	practicelink "github.com/kailas-cloud/practicelink/pkg/sdk"
)

func newEnrichCmd(flags *rootFlags) *cobra.Command {
	var (
		inputFile string
		domains   string
		maxLinks  int
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Resolve the problems in a write-up to practice links",
		Long: `Reads a write-up (use "-" for stdin), finds the coding problems it mentions
and prints verified practice links. Search and model tiers run only when
their keys are present in the credentials file or the environment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd.InOrStdin(), inputFile)
			if err != nil {
				return err
			}

			creds, err := envCredentials(flags.credsFile)
			if err != nil {
				return err
			}

			client, err := practicelink.New(
				practicelink.WithSearch(creds.SearchKey),
				practicelink.WithSearchBaseURL(creds.SearchBaseURL),
				practicelink.WithLLM(creds.LLMKey, creds.LLMBaseURL, creds.LLMModel),
				practicelink.WithAllowedDomains(domains),
				practicelink.WithMaxLinks(maxLinks),
				practicelink.WithLogger(flags.logger(cmd.ErrOrStderr())),
			)
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			res, err := client.Enrich(cmd.Context(), practicelink.EnrichInput{Raw: raw})
			if err != nil {
				return fmt.Errorf("enrich: %w", err)
			}
			return printEnrich(cmd.OutOrStdout(), res, flags.asJSON)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to write-up file")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVar(&domains, "domains", "leetcode.com,geeksforgeeks.org", "allowed practice domains")
	cmd.Flags().IntVarP(&maxLinks, "max", "n", 3, "maximum links (1-6)")
	return cmd
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("input %s is empty", path)
	}
	return string(data), nil
}

func printEnrich(w io.Writer, res practicelink.EnrichResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if len(res.Links) == 0 {
		_, err := fmt.Fprintln(w, "No practice links found.")
		return err
	}
	_, err := fmt.Fprintf(w, "## Practice these problems\n%s\n", res.PracticeMarkdown)
	return err
}

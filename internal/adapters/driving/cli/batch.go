package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

var (
	batchFile   string
	batchFormat string
	batchSave   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [query...]",
	Short: "Research several queries in one run",
	Long: `Researches each query independently. A failing query is reported and
does not stop the others.

Queries come from the arguments, from --file (one per line, blank lines and
lines starting with # are ignored), or both.`,
	Annotations: map[string]string{annotationNeeds: needsCorpus},
	RunE:        runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file with one query per line")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "", "print each full report in this format")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "archive successful reports")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	queries := append([]string(nil), args...)
	if batchFile != "" {
		fromFile, err := readQueries(batchFile)
		if err != nil {
			return err
		}
		queries = append(queries, fromFile...)
	}
	if len(queries) == 0 {
		return fmt.Errorf("%w: no queries given", domain.ErrValidation)
	}
	if services.Batch == nil {
		return fmt.Errorf("%w: batch processor", ErrServicesNotConfigured)
	}

	outcome, err := services.Batch.Run(cmd.Context(), queries)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	for i, item := range outcome.Items {
		if !item.OK() {
			cmd.Printf("[%d] %s\n    failed: %v\n", i+1, item.Query, item.Err)
			continue
		}

		r := item.Report
		cmd.Printf("[%d] %s\n    confidence %.2f, %d steps, %d sources\n",
			i+1, item.Query, r.ConfidenceScore, len(r.Steps), len(r.SourcesUsed))

		if batchFormat != "" {
			rendered, err := services.Research.ExportReport(r, batchFormat)
			if err != nil {
				return err
			}
			cmd.Println(strings.TrimRight(rendered, "\n"))
			cmd.Println()
		}
		if batchSave {
			if err := saveReport(cmd, r); err != nil {
				return err
			}
		}
	}

	cmd.Printf("\n%d of %d queries succeeded\n", outcome.Succeeded(), len(outcome.Items))
	return nil
}

// readQueries reads one query per line, skipping blanks and # comments.
func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening query file: %w", err)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	return queries, nil
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

var (
	researchFormat  string
	researchOutput  string
	researchSave    bool
	researchQuality bool
	researchTimings bool
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Research a question against the corpus",
	Long: `Decomposes the query into sub-queries, gathers evidence for each and
prints a synthesised report.

Formats: text (default), markdown (md), json, yaml.

Examples:
  sercha-research research "What is machine learning and how does it work?"
  sercha-research research --corpus ./notes --format md "effects of climate change"`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{annotationNeeds: needsCorpus},
	RunE:        runResearch,
}

func init() {
	researchCmd.Flags().StringVarP(&researchFormat, "format", "f", string(domain.ReportFormatText), "output format")
	researchCmd.Flags().StringVarP(&researchOutput, "output", "o", "", "write the report to a file instead of stdout")
	researchCmd.Flags().BoolVar(&researchSave, "save", false, "archive the report for later review")
	researchCmd.Flags().BoolVar(&researchQuality, "quality", false, "print a quality assessment of the report")
	researchCmd.Flags().BoolVar(&researchTimings, "timings", false, "print call timings")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	report, err := services.Research.Research(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	rendered, err := services.Research.ExportReport(report, researchFormat)
	if err != nil {
		return err
	}

	if researchOutput != "" {
		if err := os.WriteFile(researchOutput, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		cmd.Printf("Report written to %s\n", researchOutput)
	} else {
		cmd.Println(strings.TrimRight(rendered, "\n"))
	}

	if researchSave {
		if err := saveReport(cmd, report); err != nil {
			return err
		}
	}

	if researchQuality {
		if services.Quality == nil {
			return fmt.Errorf("%w: quality analyzer", ErrServicesNotConfigured)
		}
		printQuality(cmd, services.Quality.Assess(report))
	}

	if researchTimings && services.Monitor != nil {
		cmd.Println()
		return services.Monitor.Report(cmd.OutOrStdout())
	}
	return nil
}

func saveReport(cmd *cobra.Command, report *domain.ResearchReport) error {
	if services.History == nil {
		return fmt.Errorf("%w: report archive", ErrServicesNotConfigured)
	}
	if err := services.History.Save(cmd.Context(), report); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	cmd.Printf("Saved report %s\n", report.ID)
	return nil
}

func printQuality(cmd *cobra.Command, q domain.QualityAssessment) {
	cmd.Println()
	cmd.Println("Quality:")
	cmd.Printf("  Grade:              %s\n", q.Grade)
	cmd.Printf("  Steps:              %d\n", q.Steps)
	cmd.Printf("  Evidence coverage:  %.0f%%\n", q.EvidenceCoverage*100)
	cmd.Printf("  Source diversity:   %d\n", q.SourceDiversity)
	cmd.Printf("  Mean top relevance: %.2f\n", q.MeanTopRelevance)
	for _, sq := range q.WeakSubQueries {
		cmd.Printf("  Weak sub-query:     %s\n", sq)
	}
}

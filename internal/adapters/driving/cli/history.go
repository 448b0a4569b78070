package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage archived research reports",
	Long:  `List, show and delete reports saved with --save or from interactive sessions.`,
}

var historyListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List archived reports, newest first",
	Annotations: map[string]string{annotationNeeds: needsServices},
	RunE:        runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:         "show [id]",
	Short:       "Show an archived report",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNeeds: needsServices},
	RunE:        runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:         "delete [id]",
	Short:       "Delete an archived report",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNeeds: needsServices},
	RunE:        runHistoryDelete,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of reports")
	historyShowCmd.Flags().StringVarP(&historyFormat, "format", "f", string(domain.ReportFormatText), "output format")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func requireHistory() error {
	if services.History == nil {
		return fmt.Errorf("%w: report archive", ErrServicesNotConfigured)
	}
	return nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if err := requireHistory(); err != nil {
		return err
	}

	summaries, err := services.History.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("No archived reports.")
		return nil
	}

	for _, s := range summaries {
		cmd.Printf("%s  %s  %.2f  %d sources\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.ConfidenceScore, s.Sources)
		cmd.Printf("    %s\n", s.Query)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if err := requireHistory(); err != nil {
		return err
	}

	report, err := services.History.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting report: %w", err)
	}

	rendered, err := services.Research.ExportReport(report, historyFormat)
	if err != nil {
		return err
	}
	cmd.Println(strings.TrimRight(rendered, "\n"))
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if err := requireHistory(); err != nil {
		return err
	}

	if err := services.History.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	cmd.Printf("Deleted report %s\n", args[0])
	return nil
}

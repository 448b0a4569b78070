package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Inspect the indexed corpus",
}

var documentsListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List indexed documents",
	Annotations: map[string]string{annotationNeeds: needsCorpus},
	RunE:        runDocumentsList,
}

var documentsStatsCmd = &cobra.Command{
	Use:         "stats",
	Short:       "Show corpus statistics",
	Annotations: map[string]string{annotationNeeds: needsCorpus},
	RunE:        runDocumentsStats,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsStatsCmd)
	rootCmd.AddCommand(documentsCmd)
}

func requireCorpus() error {
	if services.Corpus == nil {
		return fmt.Errorf("%w: corpus", ErrServicesNotConfigured)
	}
	return nil
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if err := requireCorpus(); err != nil {
		return err
	}

	docs, err := services.Corpus.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	for i := range docs {
		title := docs[i].Title
		if title == "" {
			title = docs[i].ID
		}
		cmd.Printf("%-24s %s\n", docs[i].ID, title)
		if src, ok := docs[i].Metadata["source"]; ok {
			cmd.Printf("%-24s source: %v\n", "", src)
		}
	}
	return nil
}

func runDocumentsStats(cmd *cobra.Command, _ []string) error {
	if err := requireCorpus(); err != nil {
		return err
	}

	stats, err := services.Corpus.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}
	cmd.Printf("Documents:  %d\n", stats.Documents)
	cmd.Printf("Chunks:     %d\n", stats.Chunks)
	cmd.Printf("Dimensions: %d\n", stats.Dimensions)
	return nil
}

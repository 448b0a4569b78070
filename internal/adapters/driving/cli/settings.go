package cli

import (
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:         "settings",
	Short:       "Show the effective research settings",
	Long:        `Shows settings after applying defaults, the config file and SERCHA_RESEARCH_* environment overrides.`,
	Annotations: map[string]string{annotationNeeds: needsServices},
	RunE:        runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, _ []string) error {
	s := services.Settings
	if services.ConfigPath != "" {
		cmd.Printf("Config file: %s\n\n", services.ConfigPath)
	}
	cmd.Printf("chunk_size        %d\n", s.ChunkSize)
	cmd.Printf("chunk_overlap     %d\n", s.ChunkOverlap)
	cmd.Printf("dimension         %d\n", s.Dimension)
	cmd.Printf("top_k             %d\n", s.TopK)
	cmd.Printf("max_sub_queries   %d\n", s.MaxSubQueries)
	cmd.Printf("confidence_floor  %g\n", s.ConfidenceFloor)
	cmd.Printf("source_threshold  %g\n", s.SourceThreshold)
	cmd.Printf("max_snippet_chars %d\n", s.MaxSnippetChars)
	cmd.Printf("embed_titles      %t\n", s.EmbedTitles)
	cmd.Printf("parallel          %t\n", s.Parallel)
	cmd.Printf("workers           %d\n", s.Workers)
	if dir := activeCorpusDir(); dir != "" {
		cmd.Printf("\nCorpus: %s\n", dir)
	}
	return nil
}

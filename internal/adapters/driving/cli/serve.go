package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-research/internal/adapters/driven/loader"
	"github.com/custodia-labs/sercha-research/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/logger"
)

// mcpServer is the subset of the MCP server used by the serve command.
type mcpServer interface {
	Run(ctx context.Context) error
	RunHTTP(ctx context.Context, addr string) error
}

// newMCPServer creates the MCP server.
var newMCPServer = func(ports *mcp.Ports) (mcpServer, error) {
	return mcp.NewServer(ports)
}

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can run research
and add documents.

By default the server speaks JSON-RPC over stdio. Use --port to serve HTTP
instead. With --watch, files added to the corpus directory are indexed while
the server runs.

Examples:
  sercha-research serve --corpus ./notes
  sercha-research serve --port 8080 --watch --corpus ./notes`,
	Annotations: map[string]string{annotationNeeds: needsCorpus},
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (0 = use stdio)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "index new corpus files as they appear")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if serveWatch {
		if err := startWatch(ctx); err != nil {
			return err
		}
	}

	server, err := newMCPServer(&mcp.Ports{
		Research: services.Research,
		Corpus:   services.Corpus,
		History:  services.History,
	})
	if err != nil {
		return err
	}

	if servePort > 0 {
		addr := fmt.Sprintf(":%d", servePort)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}
	return server.Run(ctx)
}

// startWatch indexes documents written to the corpus directory until ctx ends.
func startWatch(ctx context.Context) error {
	dir := activeCorpusDir()
	if dir == "" {
		return fmt.Errorf("%w: --watch needs a corpus directory", domain.ErrValidation)
	}

	l := loader.New(dir)
	docs, err := l.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching corpus: %w", err)
	}
	logger.Info("watching %s for new documents", l.Root())

	go func() {
		for doc := range docs {
			outcome, err := services.Research.AddDocuments(ctx, []domain.Document{doc})
			if err != nil {
				logger.Warn("watch: indexing %s: %v", doc.ID, err)
				continue
			}
			for _, r := range outcome.Failures() {
				logger.Warn("watch: document %s not indexed: %v", r.DocumentID, r.Err)
			}
			if outcome.Succeeded() > 0 {
				logger.Info("watch: indexed %s", doc.ID)
			}
		}
	}()
	return nil
}

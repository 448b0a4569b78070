// Package cli provides the command-line interface for sercha-research.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-research/internal/adapters/driven/loader"
	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-research/internal/logger"
	"github.com/custodia-labs/sercha-research/internal/monitor"
)

// version is set at build time.
var version = "dev"

// Command annotations describing what a command needs before it runs.
const (
	annotationNeeds = "needs"
	needsServices   = "services"
	needsCorpus     = "corpus"
)

// ErrServicesNotConfigured is returned when a command runs without services.
var ErrServicesNotConfigured = errors.New("services not configured")

// Options are the root flag values passed to the Builder.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Services holds the driving ports used by the commands.
type Services struct {
	Research driving.ResearchService
	Corpus   driving.CorpusService
	Batch    driving.BatchService
	Quality  driving.QualityService
	History  driving.HistoryService

	// NewSession creates a fresh conversation for interactive mode.
	NewSession func() driving.SessionService

	// Monitor records call timings; optional.
	Monitor *monitor.Monitor

	// Settings and ConfigPath describe the effective configuration.
	Settings   domain.ResearchSettings
	ConfigPath string

	// CorpusDir is the configured corpus directory, used when --corpus is unset.
	CorpusDir string

	// Close releases resources such as the report archive.
	Close func() error
}

// Builder constructs services once flags are parsed.
type Builder func(opts Options) (*Services, error)

var (
	builder  Builder
	services *Services

	verbose    bool
	configPath string
	corpusDir  string
	useSamples bool
)

var rootCmd = &cobra.Command{
	Use:   "sercha-research",
	Short: "Local research agent over your documents",
	Long: `sercha-research answers research questions from a local document corpus.

Queries are decomposed into focused sub-queries, each is matched against
chunk embeddings, and the evidence is synthesised into a report with a
confidence score and the documents it drew on. Everything runs offline.

The corpus is loaded from --corpus (or corpus.dir in the config file).
Without one, a small built-in sample corpus is used.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&configPath, "config", "", "config file (default ~/.sercha-research/config.toml)")
	flags.StringVar(&corpusDir, "corpus", "", "directory of .txt, .md and .pdf documents")
	flags.BoolVar(&useSamples, "samples", false, "also load the built-in sample documents")
}

// SetBuilder sets the function used to construct services on first use.
func SetBuilder(b Builder) {
	builder = b
}

// SetServices sets the services directly, bypassing the Builder.
func SetServices(s *Services) {
	services = s
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

func closeServices() {
	if services == nil || services.Close == nil {
		return
	}
	if err := services.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
}

// prepare configures logging and builds and seeds services for commands that need them.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	needs := cmd.Annotations[annotationNeeds]
	if needs == "" {
		return nil
	}
	if err := ensureServices(); err != nil {
		return err
	}
	if needs == needsCorpus {
		return loadCorpus(cmd.Context())
	}
	return nil
}

func ensureServices() error {
	if services != nil {
		return nil
	}
	if builder == nil {
		return ErrServicesNotConfigured
	}
	s, err := builder(Options{ConfigPath: configPath, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("building services: %w", err)
	}
	services = s
	return nil
}

// activeCorpusDir returns the corpus directory from the flag or the config.
func activeCorpusDir() string {
	if corpusDir != "" {
		return corpusDir
	}
	return services.CorpusDir
}

// loadCorpus ingests the configured corpus, falling back to the samples.
func loadCorpus(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var docs []domain.Document
	dir := activeCorpusDir()
	if dir != "" {
		l := loader.New(dir)
		logger.Debug("loading corpus from %s", l.Root())
		loaded, fileErrs, err := l.Load(ctx)
		if err != nil {
			return fmt.Errorf("loading corpus: %w", err)
		}
		for _, fe := range fileErrs {
			logger.Warn("skipping %s: %v", fe.Path, fe.Err)
		}
		docs = loaded
	}
	if dir == "" || useSamples {
		docs = append(docs, loader.SampleDocuments()...)
	}

	logger.Section("Corpus")
	outcome, err := services.Research.AddDocuments(ctx, docs)
	if err != nil {
		return fmt.Errorf("indexing corpus: %w", err)
	}
	for _, r := range outcome.Failures() {
		logger.Warn("document %s not indexed: %v", r.DocumentID, r.Err)
	}
	logger.Info("indexed %d of %d documents", outcome.Succeeded(), len(docs))
	return nil
}

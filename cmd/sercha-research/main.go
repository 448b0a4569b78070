// Command sercha-research is a local research agent over a document corpus.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/sercha-research/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-research/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/sercha-research/internal/adapters/driven/export"
	"github.com/custodia-labs/sercha-research/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-research/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-research/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-research/internal/core/services"
	"github.com/custodia-labs/sercha-research/internal/logger"
	"github.com/custodia-labs/sercha-research/internal/monitor"
	"github.com/custodia-labs/sercha-research/internal/postprocessors"
)

func main() {
	cli.SetBuilder(build)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// build wires the research services from configuration.
func build(opts cli.Options) (*cli.Services, error) {
	if err := file.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	store, err := openConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	settings, err := file.ResolveSettings(store, os.LookupEnv)
	if err != nil {
		return nil, err
	}
	logger.Debug("settings: %+v", settings)

	embedder := local.NewEmbeddingService(local.Config{
		Dimensions: settings.Dimension,
		Workers:    settings.Workers,
	})

	pipeline, err := postprocessors.ConfiguredPipeline(settings, store)
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}
	logger.Debug("pipeline: %d processors", pipeline.Len())

	researcher, err := services.NewResearcher(
		settings,
		pipeline,
		embedder,
		memory.NewVectorIndex(settings.Dimension),
		memory.NewDocumentStore(),
		export.NewDefaultRegistry(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating researcher: %w", err)
	}

	mon := monitor.New(researcher)

	svc := &cli.Services{
		Research: mon,
		Corpus:   researcher,
		Batch:    services.NewBatchProcessor(mon, settings.Workers),
		Quality:  services.NewQualityAnalyzer(settings),
		NewSession: func() driving.SessionService {
			return services.NewSession(mon)
		},
		Monitor:    mon,
		Settings:   settings,
		ConfigPath: store.Path(),
		CorpusDir:  file.ResolveString(store, os.LookupEnv, file.KeyCorpusDir, ""),
	}

	archive, err := sqlite.NewStore(file.ResolveString(store, os.LookupEnv, file.KeyArchivePath, ""))
	if err != nil {
		logger.Warn("report archive unavailable: %v", err)
	} else {
		svc.History = services.NewReportArchive(archive)
		svc.Close = archive.Close
	}

	return svc, nil
}

func openConfig(path string) (driven.ConfigStore, error) {
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file %s does not exist", domain.ErrValidation, path)
		}
		return file.OpenConfigFile(path)
	}

	store, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("config directory unavailable, using defaults: %v", err)
		return memory.NewConfigStore(), nil
	}
	return store, nil
}

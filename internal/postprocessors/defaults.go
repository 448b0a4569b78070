package postprocessors

import (
	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-research/internal/postprocessors/chunker"
)

// ChunkerName is the registry name of the chunking processor.
const ChunkerName = "chunker"

// chunkerKeyPrefix scopes chunker overrides in the config store.
const chunkerKeyPrefix = "postprocessors.chunker."

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(ChunkerName, buildChunker)
}

// ConfiguredPipeline builds the chunking pipeline through the registry.
// The chunker window comes from settings; postprocessors.chunker.chunk_size
// and postprocessors.chunker.overlap in store take precedence when set.
// store may be nil.
func ConfiguredPipeline(settings domain.ResearchSettings, store driven.ConfigStore) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)

	cfg := map[string]any{
		"chunk_size": settings.ChunkSize,
		"overlap":    settings.ChunkOverlap,
	}
	if store != nil {
		for _, key := range []string{"chunk_size", "overlap"} {
			if v, ok := store.Get(chunkerKeyPrefix + key); ok {
				cfg[key] = v
			}
		}
	}

	return r.BuildPipeline([]string{ChunkerName}, map[string]map[string]any{ChunkerName: cfg})
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Tokens per chunk (default: 200)
//   - overlap (int): Overlapping tokens between chunks (default: 50)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, chunker.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

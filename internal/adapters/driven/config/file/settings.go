package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
)

// EnvPrefix prefixes environment variables that override config keys.
// research.top_k is overridden by SERCHA_RESEARCH_TOP_K.
const EnvPrefix = "SERCHA_RESEARCH_"

// Config keys.
const (
	KeyChunkSize       = "research.chunk_size"
	KeyChunkOverlap    = "research.chunk_overlap"
	KeyDimension       = "research.dimension"
	KeyTopK            = "research.top_k"
	KeyMaxSubQueries   = "research.max_sub_queries"
	KeyConfidenceFloor = "research.confidence_floor"
	KeySourceThreshold = "research.source_threshold"
	KeyMaxSnippetChars = "research.max_snippet_chars"
	KeyEmbedTitles     = "research.embed_titles"
	KeyParallel        = "research.parallel"
	KeyWorkers         = "research.workers"
	KeyArchivePath     = "archive.path"
	KeyCorpusDir       = "corpus.dir"
)

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding variables already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// EnvName returns the environment variable overriding a config key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.TrimPrefix(strings.ReplaceAll(key, ".", "_"), "research_"))
}

// ResolveSettings starts from the defaults, applies values present in store
// and then environment overrides. The result is validated.
func ResolveSettings(store driven.ConfigStore, lookup LookupFunc) (domain.ResearchSettings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	r := resolver{store: store, lookup: lookup}
	s := domain.DefaultResearchSettings()

	r.intVal(KeyChunkSize, &s.ChunkSize)
	r.intVal(KeyChunkOverlap, &s.ChunkOverlap)
	r.intVal(KeyDimension, &s.Dimension)
	r.intVal(KeyTopK, &s.TopK)
	r.intVal(KeyMaxSubQueries, &s.MaxSubQueries)
	r.floatVal(KeyConfidenceFloor, &s.ConfidenceFloor)
	r.floatVal(KeySourceThreshold, &s.SourceThreshold)
	r.intVal(KeyMaxSnippetChars, &s.MaxSnippetChars)
	r.boolVal(KeyEmbedTitles, &s.EmbedTitles)
	r.boolVal(KeyParallel, &s.Parallel)
	r.intVal(KeyWorkers, &s.Workers)

	if r.err != nil {
		return domain.ResearchSettings{}, r.err
	}
	if err := s.Validate(); err != nil {
		return domain.ResearchSettings{}, err
	}
	return s, nil
}

// ResolveString returns a string setting from the environment or store.
func ResolveString(store driven.ConfigStore, lookup LookupFunc, key, fallback string) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvName(key)); ok && v != "" {
		return v
	}
	if store != nil {
		if v := store.GetString(key); v != "" {
			return v
		}
	}
	return fallback
}

// resolver applies store values and env overrides, keeping the first error.
type resolver struct {
	store  driven.ConfigStore
	lookup LookupFunc
	err    error
}

func (r *resolver) has(key string) bool {
	if r.store == nil {
		return false
	}
	_, ok := r.store.Get(key)
	return ok
}

func (r *resolver) env(key string) (string, bool) {
	v, ok := r.lookup(EnvName(key))
	return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
}

func (r *resolver) fail(key, raw string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s=%q: %v", domain.ErrValidation, EnvName(key), raw, err)
	}
}

func (r *resolver) intVal(key string, dst *int) {
	if r.has(key) {
		*dst = r.store.GetInt(key)
	}
	if raw, ok := r.env(key); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			r.fail(key, raw, err)
			return
		}
		*dst = v
	}
}

func (r *resolver) floatVal(key string, dst *float64) {
	if r.has(key) {
		*dst = r.store.GetFloat(key)
	}
	if raw, ok := r.env(key); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			r.fail(key, raw, err)
			return
		}
		*dst = v
	}
}

func (r *resolver) boolVal(key string, dst *bool) {
	if r.has(key) {
		*dst = r.store.GetBool(key)
	}
	if raw, ok := r.env(key); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			r.fail(key, raw, err)
			return
		}
		*dst = v
	}
}

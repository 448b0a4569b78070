// Package file provides file-based configuration for sercha-research.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - ResolveSettings: research settings from a ConfigStore with
//     SERCHA_RESEARCH_* environment overrides, optionally read from .env
package file

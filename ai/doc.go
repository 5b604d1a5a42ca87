// Package ai defines the embedding interfaces used by the ingestion and
// query layers, plus shared provider configuration. Concrete providers
// live in subpackages: openai for OpenAI-compatible HTTP services and
// mock for deterministic test doubles.
package ai

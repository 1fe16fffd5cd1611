// Package embed turns short texts into dense vectors for semantic matching.
//
// Provider is the only boundary the matcher depends on. Backends:
//   - Hashing: deterministic, offline character n-gram hashing
//   - Gemini: Google Gemini embedding models via google.golang.org/genai
//   - OpenAI: OpenAI-compatible endpoints (OpenAI, Ollama, vLLM) via go-openai
//
// Decorators:
//   - Cache: per-process memoization with an optional shared Store (RedisStore)
//   - Limited: request rate limiting for remote backends
//   - Handle: lazily built, reused provider shared by every request
package embed

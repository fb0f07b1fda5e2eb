// Package openai implements the ai.Embedder interface using OpenAI-compatible
// embedding APIs via langchaingo. Works with any endpoint that speaks the
// OpenAI embeddings protocol (Ollama, LocalAI, vLLM, OpenAI itself).
package openai

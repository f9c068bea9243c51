// Package openrouter is a client for OpenRouter-compatible chat-completion
// APIs. It validates requests before any network I/O, retries transient
// failures with exponential backoff, parses single-shot and server-sent
// event responses and can check structured output against a JSON schema.
//
// The package also provides Generator, the OpenRouter-backed implementation
// of generation.Generator.
package openrouter

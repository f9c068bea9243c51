// Package generation defines the boundary between the application and the
// LLM providers that turn source text into flashcard candidates. It holds
// the Generator interface, the prompt and response schema shared by every
// provider, a deterministic sandbox Generator and the closed error taxonomy
// reported by generation calls.
package generation

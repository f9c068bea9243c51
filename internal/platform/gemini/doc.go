// Package gemini implements generation.Generator on top of the Google
// Gemini API. It is selected with llm.provider=gemini as an alternative to
// OpenRouter and asks the model for the same candidates document, using
// Gemini's native response schema support.
package gemini

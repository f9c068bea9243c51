// Package config loads the server configuration from FLASHCARDS_ environment
// variables and an optional config.yaml, applies defaults and validates the
// result. The llm section selects and tunes the flashcard generator.
package config

// Package domain holds the flashcard and generation entities, their limits
// and validation, and the rules deciding a card's source.
package domain

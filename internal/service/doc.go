// Package service holds the application services behind the HTTP API:
// flashcard generation and flashcard persistence. Services own
// transactions and translate store and provider failures into the error
// codes the API exposes.
package service

// Package api provides the HTTP handlers of the flashcards API. Handlers
// decode and validate requests, call the services and map their errors to
// status codes and the JSON error envelope in one place (errors.go).
package api

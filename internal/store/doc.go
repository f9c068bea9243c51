// Package store defines the persistence interfaces for generations, their
// error logs and flashcards, together with the transaction helper and the
// error values shared by every implementation.
package store

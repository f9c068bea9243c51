// Package postgres implements the store interfaces with database/sql.
// Production runs on PostgreSQL through the pgx driver; the queries stick
// to portable SQL (numbered placeholders, RETURNING, LIKE with an explicit
// ESCAPE) so the same stores also run against SQLite in tests.
//
// The schema is managed with goose migrations embedded in the binary.
package postgres

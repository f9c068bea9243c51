// Package review holds the client-side state of one generate, review and
// save round.
//
// Machine is a plain single-owner state container: every transition is a
// synchronous method call and nothing in it is safe for concurrent use.
// Flow owns a Machine on a single event-loop goroutine and runs the slow
// API calls of the generating and saving states in the background, posting
// their outcome back to the loop as ordinary transitions.
package review

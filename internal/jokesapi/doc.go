// Package jokesapi provides the record model and an HTTP client for the
// remote jokes collection.
//
// # Overview
//
// The server exposes a single collection resource (jokes_api/ by default)
// holding records with three JSON fields: id, setup and punchline. The id is
// assigned by the server on creation and identifies the record afterwards.
//
// # Architecture
//
//   - types.go: the Joke record, its identity rule and input validation
//   - client.go: Client, one method per collection operation
//   - errors.go: the Error type and its two kinds
//   - transport.go: request-id tagging and exchange logging round-trippers
//
// # Endpoints
//
//	GET    {base}jokes_api/       list every record
//	POST   {base}jokes_api/       create a record, response carries the id
//	PUT    {base}jokes_api/{id}   replace a record
//	DELETE {base}jokes_api/{id}   remove a record, response echoes it
//
// # Error Handling
//
// Every failure is an *Error. KindNotFound is reported for HTTP 404; anything
// else (dial failures, other non-2xx replies, undecodable bodies) is
// KindTransport. Message carries the server's own description when it sent
// one, so callers can show it verbatim. A bodiless 5xx still gets a status
// line ("HTTP 503 Service Unavailable"); a bodiless 404 gets nothing, leaving
// the caller's fallback text to apply:
//
//	_, err := client.Delete(ctx, 5)
//	if jokesapi.IsNotFound(err) {
//		// record 5 is already gone
//	}
//
// Requests are single-shot. Timeouts come from Options.Timeout and nothing
// is retried.
//
// # Logging
//
// NewTransport wraps a round-tripper so each exchange is written to the
// standard logger at the configured LogLevel (none, basic, headers, body).
// Every request carries an X-Request-ID header for correlation with server
// logs.
package jokesapi

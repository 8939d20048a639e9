// Package mockserver serves an in-memory jokes collection over HTTP using
// fiber. It backs `jokes serve` for local development and the end-to-end
// tests of the sync state machine.
//
// Routes mirror the public server:
//
//	GET    /jokes_api/      list in insertion order
//	POST   /jokes_api/      create, assigns the next id (201)
//	GET    /jokes_api/{id}  fetch one
//	PUT    /jokes_api/{id}  replace
//	DELETE /jokes_api/{id}  remove, echoes the removed record
//
// Unknown ids answer 404 with {"detail":"Not found."}; blank fields or
// malformed JSON answer 400.
package mockserver

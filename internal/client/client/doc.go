// Package client contains the HTTP client of the credkeeper CLI.
//
// # Overview
//
// HTTPClient talks to the credkeeper server over its JSON API:
// Signup, Login and Ping (GET /health). Request bodies and responses use
// the same field names as the server.
//
// # Error Handling
//
// Non-2xx responses become *APIError values carrying the status and the
// server's message. They match the sentinels of this package under
// errors.Is: ErrUnauthorized (401), ErrNotFound (404), ErrBadRequest (400)
// and ErrServer (5xx). Transport failures match ErrUnavailable.
//
// All operations accept context.Context and honor cancellation.
package client

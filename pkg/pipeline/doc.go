// Package pipeline wraps an existing http.Handler so that every response it
// produces carries the request's ID.
//
// For each request the Adapter:
//
//  1. derives a reqid.ID from the inbound X-Request-Id header,
//  2. binds it to the request context and runs the wrapped handler against
//     an in-memory response,
//  3. sets the X-Request-Id response header from the bound ID,
//  4. buffers the whole body, decodes it as a JSON object and inserts a
//     "taskLocals" key holding the full ID and a static note,
//  5. writes the original status and headers with the pretty-printed body.
//
// The wrapped handler knows nothing about the adapter; it reads the ID with
// reqid.Current(r.Context()) when it needs one.
//
// A body that is not UTF-8, not JSON or not a JSON object cannot carry the
// ID, and the response is aborted: the handler panics with
// http.ErrAbortHandler and net/http drops the connection without writing
// anything. Bodies are fully buffered, so the adapter only suits small
// JSON responses.
package pipeline

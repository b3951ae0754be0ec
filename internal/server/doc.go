// Package server provides HTTP routing, middleware, and the email
// verification callback used by the CLI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method filtering.
//
// # Verification Callback Handler
//
// [VerificationHandler] receives the redirect from an email verification
// link. The identity service appends the userId and secret pair to the
// configured callback URL; the handler confirms it against the service and
// sends the outcome through a channel. It only processes one callback, so a
// replayed link cannot confirm twice.
//
// When the user runs verification commands, a temporary HTTP server starts on
// the configured local address, handles the callback, and shuts down after
// delivering the result.
package server

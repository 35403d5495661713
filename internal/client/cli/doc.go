// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration and the HTTP API client into a small REPL:
// register an account, log in to obtain a bearer token, then call the
// protected routes with it. A background watcher pings the server and
// reports when it goes offline or comes back.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

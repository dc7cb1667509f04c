// Package cli provides the interactive command-line client for the expert
// profile page.
//
// It wires configuration, the local store, the REST client and the page
// state machine behind a REPL. A background watcher pings the server and
// switches the prompt between online and offline mode; while offline the
// last saved snapshot is shown and failed saves are kept as drafts.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli

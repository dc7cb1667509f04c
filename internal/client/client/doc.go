// Package client contains client-side building blocks for the profile page.
//
// # Overview
//
// The package provides:
//  1. The API contract the page and the CLI depend on (see the Client
//     interface): GetProfile, SaveProfile, RevisionURL and Ping.
//  2. A JSON/HTTP implementation (see HTTPClient) that sends the access
//     token as a bearer header, tags every call with a request id and maps
//     status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Callers match with errors.Is: ErrUnavailable (network failure, 502-504),
// ErrUnauthorized (401/403), ErrConflict (409, stale version) and
// ErrLocalDataNotAvailable.
//
// All operations accept context.Context and honor cancellation/timeouts.
package client

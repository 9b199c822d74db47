// Package client talks to the hosted backends the storefront is built on.
//
// The package provides:
//  1. Transport-agnostic contracts: AuthAPI (sessions and user metadata),
//     DataAPI (read-only table queries) and FunctionsAPI (serverless calls).
//  2. HTTPClient, one implementation of all three over HTTPS JSON. Every
//     request carries the project api key; authorized calls add a bearer
//     token. Status codes are mapped to sentinel errors.
//  3. Local persistence bootstrap (OpenDatabase, RunMigrations) wiring an
//     SQLite file and applying the embedded goose migrations.
//
// # Error Handling
//
// Failures are reported as *APIError values carrying the service message.
// They unwrap to ErrUnauthorized (401/403) or ErrUnavailable (5xx,
// transport failures, timeouts) so callers can match with errors.Is.
package client

// Package client talks to the workshop dashboard REST API.
//
// # Overview
//
// The package provides:
//  1. Gateway, the single place outbound calls are built: JSON content type,
//     optional bearer token, per-request timeout and request id, and
//     translation of non-2xx answers into *APIError.
//  2. The Client contract (Login, Me, TenantTheme) and its HTTPClient
//     implementation on top of Gateway.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite file and applying embedded goose migrations.
//
// # Error Handling
//
// Failures before a response are *TransportError and match ErrUnavailable
// with errors.Is. Non-2xx answers are *APIError; 401/403 also match
// ErrUnauthorized. Nothing is retried.
package client

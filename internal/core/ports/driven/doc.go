// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - FullTextStore: Index and delete-by-query against the search backend
//   - MessageSource: Fetches messages from a mail server
//   - SyncStateStore: Persists per-mailbox sync progress and document ids
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or source package
package driven

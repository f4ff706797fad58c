// Package store provides file-based persistence for palmpay's local state.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk under the user's configured home
// directory. The authenticated session (bearer token and profile) is
// encrypted at rest behind a passphrase; payment receipts are plain JSON.
// All methods are concurrency-safe via internal locking.
package store

// Package github implements the vault store against the GitHub
// contents API. Every write is a commit on the configured branch, so
// the repository history doubles as the vault's audit trail. Updates
// carry the blob SHA from the previous read; GitHub rejects stale
// hashes, which surfaces as a domain conflict for the caller to
// re-read and resolve.
package github

// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the vault document store, the external
// board, the system-of-record stores and the embedding backend.
//
// Core services depend only on these interfaces; concrete adapters live
// under internal/adapters/driven.
package driven

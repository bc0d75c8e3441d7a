// Package domain contains the core business types for the sync engine:
// client profiles, vault documents, indexed chunks, field ownership rules
// and the error taxonomy shared by all adapters.
//
// The domain layer has no dependencies on adapters or external services.
package domain

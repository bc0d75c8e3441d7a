// Package services contains the application services implementing the
// driving ports: profile merge, sync orchestration, indexing and search.
// Services depend only on domain types and driven ports.
package services

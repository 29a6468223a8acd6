// Package pipeline fans module × gene-set evaluations out across worker
// goroutines and hands finished rows to a visit callback in deterministic
// (module, subject) order. Sealed modules are read-only, so workers share
// them without locking.
package pipeline

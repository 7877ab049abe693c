// Package validation holds the pure predicates behind the form engine: anchored
// pattern matching, per-field status derivation, the Failure value returned by
// gating checks, and the issue list produced when a definition is checked at
// construction time. Nothing here touches focus or notifications.
package validation

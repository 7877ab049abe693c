// Package form implements the form controller: it owns the state of one
// application form (selected category, field values, collection editors),
// gates submission with a fail-fast validation walk, and drives the
// submission round trip through an injected channel.
//
// The controller is single threaded. Hosts call its methods from one
// goroutine; the only suspension point is Dispatch.Run, after which the host
// reports the outcome with OnSubmissionResult.
package form

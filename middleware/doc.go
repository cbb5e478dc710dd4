// Package middleware provides composable cross-cutting behavior around
// message handling.
//
// A middleware chain wraps the terminal bus invocation: the first middleware
// in the chain runs first and decides whether and when to call the rest.
// Each middleware applies only to messages carrying its marker, so a bus can
// run a single chain for every message without paying for behavior a message
// did not opt into.
//
// Provided middlewares:
//   - MessageLogger: structured logs before, after, and on failed handling
//   - BusLocker: mutual exclusion for messages that must not interleave,
//     with postponement of re-entrant calls and a bounded wait for others
package middleware

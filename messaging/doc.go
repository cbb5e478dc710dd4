// Package messaging provides the command and event buses and their handler
// contracts.
//
// Commands are bound to exactly one handler and return a result; events are
// dispatched to zero or more handlers and return nothing. Handlers declare
// the message type they accept, and both buses check the declaration at
// registration time so a mismatched handler is rejected before it can ever
// run.
//
// The buses perform registry lookups and invocation only. Cross-cutting
// behavior such as logging and mutual exclusion is layered on top through the
// middleware package.
package messaging

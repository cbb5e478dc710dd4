// Package bossbus is an in-process message mediator implementing the
// command/event dispatch pattern.
//
// Callers submit commands, which are executed by exactly one handler and
// return a result, or events, which are dispatched to any number of handlers
// for their side effects. Cross-cutting behavior is layered around handling
// through a middleware chain; the provided middlewares add structured logging
// and mutual exclusion for messages that opt into them via markers.
//
// A minimal session:
//
//	bus := bossbus.New()
//
//	handler := messaging.NewCommandHandlerFunc("RenameUser", func(ctx context.Context, cmd contracts.Command) (any, error) {
//		return rename(cmd.(*RenameUser)), nil
//	})
//	if err := bus.RegisterCommand(&RenameUser{}, handler); err != nil {
//		return err
//	}
//
//	result, err := bus.Execute(ctx, &RenameUser{Name: "new name"})
package bossbus

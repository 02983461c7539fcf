// Package runtime provides the execution context for gitscope commands.
//
// It encapsulates the shared dependencies a command needs: configuration,
// logger, token chain, backend factory, operation service and printer.
package runtime

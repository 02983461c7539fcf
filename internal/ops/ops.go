// Package ops implements the repository operations shared by the HTTP API,
// the CLI and the agent tools. Every operation takes a resolved repo.Backend;
// read operations return typed errors, mutations fold failures into a
// repo.OperationResult.
package ops

import (
	"log/slog"

	"gitscope.dev/gitscope/internal/repo"
)

// Service groups the operation components
type Service struct {
	History   *History
	Refs      *Refs
	Mutations *Mutations
	Stash     *Stash
	Inspect   *Inspect
}

// New builds a Service. defaultMaxCount is the history page size used when a
// request gives none.
func New(defaultMaxCount int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		History:   NewHistory(defaultMaxCount),
		Refs:      &Refs{logger: logger},
		Mutations: &Mutations{logger: logger},
		Stash:     &Stash{logger: logger},
		Inspect:   &Inspect{},
	}
}

// finish logs a failed mutation and builds its result
func finish(logger *slog.Logger, op string, b repo.Backend, err error, success, fallback string) repo.OperationResult {
	if err != nil {
		logger.Debug("operation failed", "op", op, "repo", b.Key(), "error", err)
		return repo.Failed(err, fallback)
	}
	return repo.Succeeded(success)
}

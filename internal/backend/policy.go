package backend

import (
	"fmt"

	"gitscope.dev/gitscope/internal/config"
	gserrors "gitscope.dev/gitscope/internal/errors"
)

// Policy decides whether local repositories may be opened
type Policy struct {
	Environment  string
	LocalEnabled bool
}

// PolicyFromConfig reads environment and local.enabled
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{Environment: cfg.Environment, LocalEnabled: cfg.Local.Enabled}
}

// CheckLocal returns a PermissionError when local mode is disabled: in
// production and shared deployments, or when local.enabled is false.
func (p Policy) CheckLocal() error {
	if !p.LocalEnabled {
		return gserrors.NewPermissionError("local repository access is disabled (local.enabled=false)")
	}
	switch p.Environment {
	case config.EnvProduction, config.EnvShared:
		return gserrors.NewPermissionError(fmt.Sprintf("local repository access is not available in %s deployments", p.Environment))
	}
	return nil
}

// Package agent exposes a read-only subset of repository operations as
// declarative tools an LLM agent can call. Each call is independent and every
// result is capped so a single call cannot return an unbounded payload.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"gitscope.dev/gitscope/internal/config"
	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/ops"
	"gitscope.dev/gitscope/internal/repo"
)

// Limits caps the size of tool results
type Limits struct {
	MaxCommits     int
	DefaultCommits int
	MaxDiffChars   int
	MaxTags        int
	MaxFiles       int
}

// DefaultLimits returns the caps used when no configuration is given
func DefaultLimits() Limits {
	return Limits{
		MaxCommits:     50,
		DefaultCommits: 20,
		MaxDiffChars:   8000,
		MaxTags:        50,
		MaxFiles:       100,
	}
}

// LimitsFromConfig reads the agent.* settings
func LimitsFromConfig(cfg config.AgentConfig) Limits {
	return Limits{
		MaxCommits:     cfg.MaxCommits,
		DefaultCommits: cfg.DefaultCommits,
		MaxDiffChars:   cfg.MaxDiffChars,
		MaxTags:        cfg.MaxTags,
		MaxFiles:       cfg.MaxFiles,
	}
}

// Property describes one tool parameter
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
	Minimum     *int   `json:"minimum,omitempty"`
	Maximum     *int   `json:"maximum,omitempty"`
}

// Schema is the JSON schema of a tool's argument object
type Schema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

func objectSchema(props map[string]Property, required ...string) Schema {
	if props == nil {
		props = map[string]Property{}
	}
	return Schema{Type: "object", Properties: props, Required: required}
}

// Tool is a named, independently invocable operation
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`

	run func(ctx context.Context, args json.RawMessage) (any, error)
}

// Toolset is the set of tools bound to one repository backend
type Toolset struct {
	backend repo.Backend
	svc     *ops.Service
	limits  Limits
	tools   []Tool
	byName  map[string]int
}

// NewToolset binds the tools to b. Zero limits fall back to DefaultLimits.
func NewToolset(b repo.Backend, svc *ops.Service, limits Limits) *Toolset {
	ts := &Toolset{
		backend: b,
		svc:     svc,
		limits:  withDefaults(limits),
		byName:  map[string]int{},
	}
	ts.tools = ts.define()
	for i, t := range ts.tools {
		ts.byName[t.Name] = i
	}
	return ts
}

func withDefaults(l Limits) Limits {
	d := DefaultLimits()
	if l.MaxCommits <= 0 {
		l.MaxCommits = d.MaxCommits
	}
	if l.DefaultCommits <= 0 {
		l.DefaultCommits = d.DefaultCommits
	}
	if l.DefaultCommits > l.MaxCommits {
		l.DefaultCommits = l.MaxCommits
	}
	if l.MaxDiffChars <= 0 {
		l.MaxDiffChars = d.MaxDiffChars
	}
	if l.MaxTags <= 0 {
		l.MaxTags = d.MaxTags
	}
	if l.MaxFiles <= 0 {
		l.MaxFiles = d.MaxFiles
	}
	return l
}

// Limits returns the effective caps
func (ts *Toolset) Limits() Limits {
	return ts.limits
}

// Tools returns the tool declarations in a stable order
func (ts *Toolset) Tools() []Tool {
	out := make([]Tool, len(ts.tools))
	copy(out, ts.tools)
	return out
}

// Call runs the named tool with JSON-encoded arguments. Empty args mean {}.
func (ts *Toolset) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	i, ok := ts.byName[name]
	if !ok {
		return nil, gserrors.NewValidationError("name", fmt.Sprintf("unknown tool %q", name))
	}
	return ts.tools[i].run(ctx, args)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeArgs unmarshals args into dst, rejecting unknown fields, and validates it
func decodeArgs(args json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return gserrors.NewValidationError("arguments", fmt.Sprintf("invalid arguments: %v", err))
	}
	if err := validate.Struct(dst); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !gserrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return gserrors.NewValidationError("arguments", err.Error())
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return gserrors.NewValidationError(fe.Field(), "is required")
	case "min", "gte":
		return gserrors.NewValidationError(fe.Field(), "must be at least "+fe.Param())
	default:
		return gserrors.NewValidationError(fe.Field(), fmt.Sprintf("failed the %q check", fe.Tag()))
	}
}

// truncateDiff cuts diff to limit characters and appends a marker saying so
func truncateDiff(diff string, limit int) string {
	if len(diff) <= limit {
		return diff
	}
	runes := []rune(diff)
	if len(runes) <= limit {
		return diff
	}
	return string(runes[:limit]) + fmt.Sprintf("\n\n... [diff truncated, showing first %d chars]", limit)
}

func intPtr(v int) *int { return &v }

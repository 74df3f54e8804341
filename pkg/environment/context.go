package environment

import (
	"context"
	"strings"
)

// Environment represents application environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalizes an environment name, accepting the short aliases
// dev, stage and prod.
func Parse(name string) Environment {
	switch env := strings.ToLower(strings.TrimSpace(name)); env {
	case "dev", string(Development):
		return Development
	case "stage", string(Staging):
		return Staging
	case "prod", string(Production):
		return Production
	default:
		return Environment(env)
	}
}

func (e Environment) IsDevelopment() bool { return e == Development || e == "dev" }
func (e Environment) IsStaging() bool     { return e == Staging || e == "stage" }
func (e Environment) IsProduction() bool  { return e == Production || e == "prod" }

type contextKey struct{}

// WithContext adds environment to context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves environment from context.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

func IsDevelopment(ctx context.Context) bool { return FromContext(ctx).IsDevelopment() }
func IsStaging(ctx context.Context) bool     { return FromContext(ctx).IsStaging() }
func IsProduction(ctx context.Context) bool  { return FromContext(ctx).IsProduction() }

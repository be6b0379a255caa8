package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/narrate/internal/envvar"
)

// Environment is the runtime environment the service runs in.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// FromEnv reads the environment from NARRATE_ENV, defaulting to development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.NarrateEnv))
}

// Parse converts a raw value into an Environment.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return Production
	default:
		return Development
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}

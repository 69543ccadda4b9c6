// Package connection resolves the PostgreSQL connection parameters for the
// dashboard, preferring a connection definition stored in the orchestrator
// (Airflow) and falling back to environment variables. Exactly one source
// wins per resolution; fields are never merged across sources.
package connection

import "fmt"

// Source tags which configuration source produced a resolved Config.
type Source string

const (
	// SourceOrchestrator means the config came from the orchestrator's
	// connection-metadata store.
	SourceOrchestrator Source = "orchestrator"
	// SourceEnvironment means the config came from DB_* environment variables.
	SourceEnvironment Source = "environment"
)

// Config holds resolved database connection parameters. It is immutable for
// the process lifetime once returned by Resolver.Resolve; re-resolution
// requires a restart.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Source   Source
}

// DSN renders the config as a pgx-compatible connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database,
	)
}

// Addr returns host:port for logging. Credentials are deliberately excluded.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// ErrNoConnectionSource is returned when neither the orchestrator nor the
// environment yields a usable connection. Fatal at startup: the process must
// not serve traffic half-configured.
var ErrNoConnectionSource = errors.New("no usable database connection source")

const (
	defaultHost = "localhost"
	defaultPort = 5432
)

// Resolver determines database connection parameters. It tries the
// orchestrator's stored definition first and falls back to DB_* environment
// variables. The two sources are mutually exclusive: a partially populated
// orchestrator definition is skipped entirely rather than patched with
// environment values, so a production password can never be silently paired
// with a developer's local host override.
type Resolver struct {
	store    MetadataStore // nil when no orchestrator is configured
	connName string
	logger   *slog.Logger
}

// NewResolver creates a resolver. store may be nil (environment-only mode).
func NewResolver(store MetadataStore, connName string) *Resolver {
	return &Resolver{
		store:    store,
		connName: connName,
		logger:   slog.Default(),
	}
}

// Resolve performs a single resolution attempt: one outbound metadata read,
// no retries. A missing or unreachable orchestrator is an expected condition
// and logs a soft miss before falling back.
func (r *Resolver) Resolve(ctx context.Context) (Config, error) {
	if r.store != nil {
		def, err := r.store.GetConnection(ctx, r.connName)
		switch {
		case err != nil:
			r.logger.Info("Orchestrator connection unavailable, falling back to environment",
				"connection", r.connName, "reason", err)
		case !complete(def):
			r.logger.Warn("Orchestrator connection definition is incomplete, falling back to environment",
				"connection", r.connName)
		default:
			r.logger.Info("Resolved database connection from orchestrator",
				"connection", r.connName, "host", def.Host, "database", def.Schema)
			return Config{
				Host:     def.Host,
				Port:     def.Port,
				Database: def.Schema,
				User:     def.Login,
				Password: def.Password,
				Source:   SourceOrchestrator,
			}, nil
		}
	}

	return r.fromEnvironment()
}

// complete reports whether a stored definition carries everything needed to
// connect. Password may legitimately be empty (trust auth); host, port,
// database and user may not, and are never back-filled from the environment.
func complete(def Definition) bool {
	return def.Host != "" && def.Port != 0 && def.Schema != "" && def.Login != ""
}

// fromEnvironment builds the config from DB_* variables. Host and port get
// documented defaults; database name and user must be set explicitly.
func (r *Resolver) fromEnvironment() (Config, error) {
	host := getEnvOrDefault("DB_HOST", defaultHost)
	// Containerized deployments reach postgres by service name.
	if os.Getenv("DOCKER_ENV") == "true" && os.Getenv("DB_HOST") == "" {
		host = "postgres"
	}

	port := defaultPort
	if raw := os.Getenv("DB_PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DB_PORT %q: %w", raw, err)
		}
		port = p
	}

	name := os.Getenv("DB_NAME")
	user := os.Getenv("DB_USER")
	if name == "" || user == "" {
		return Config{}, fmt.Errorf("%w: DB_NAME and DB_USER must be set when no orchestrator connection is available", ErrNoConnectionSource)
	}

	r.logger.Info("Resolved database connection from environment",
		"host", host, "port", port, "database", name)

	return Config{
		Host:     host,
		Port:     port,
		Database: name,
		User:     user,
		Password: os.Getenv("DB_PASSWORD"),
		Source:   SourceEnvironment,
	}, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

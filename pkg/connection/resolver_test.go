package connection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory MetadataStore for resolver tests.
type fakeStore struct {
	defs map[string]Definition
	err  error
}

func (f *fakeStore) GetConnection(_ context.Context, name string) (Definition, error) {
	if f.err != nil {
		return Definition{}, f.err
	}
	def, ok := f.defs[name]
	if !ok {
		return Definition{}, ErrConnectionMissing
	}
	return def, nil
}

func clearDBEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DOCKER_ENV"} {
		t.Setenv(key, "")
	}
}

func setCompleteDBEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "oppdesarrollo")
	t.Setenv("DB_USER", "dashboard")
	t.Setenv("DB_PASSWORD", "env-secret")
}

func TestResolveFromOrchestrator(t *testing.T) {
	clearDBEnv(t)
	setCompleteDBEnv(t)

	store := &fakeStore{defs: map[string]Definition{
		"oppdesarrollo_postgres": {
			Host:     "pg.prod.internal",
			Port:     5432,
			Schema:   "oppdesarrollo",
			Login:    "airflow_reader",
			Password: "orchestrator-secret",
		},
	}}

	cfg, err := NewResolver(store, "oppdesarrollo_postgres").Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceOrchestrator, cfg.Source)
	assert.Equal(t, "pg.prod.internal", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "oppdesarrollo", cfg.Database)
	assert.Equal(t, "airflow_reader", cfg.User)
	// The environment password must never leak into an orchestrator-sourced config.
	assert.Equal(t, "orchestrator-secret", cfg.Password)
}

func TestResolveFallsBackToEnvironment(t *testing.T) {
	tests := []struct {
		name  string
		store MetadataStore
	}{
		{name: "no orchestrator configured", store: nil},
		{name: "connection missing", store: &fakeStore{defs: map[string]Definition{}}},
		{name: "orchestrator unreachable", store: &fakeStore{err: context.DeadlineExceeded}},
		{
			name: "definition missing login",
			store: &fakeStore{defs: map[string]Definition{
				"oppdesarrollo_postgres": {Host: "pg.prod.internal", Port: 5432, Schema: "oppdesarrollo"},
			}},
		},
		{
			name: "definition missing host",
			store: &fakeStore{defs: map[string]Definition{
				"oppdesarrollo_postgres": {Port: 5432, Schema: "oppdesarrollo", Login: "x"},
			}},
		},
		{
			name: "definition missing port",
			store: &fakeStore{defs: map[string]Definition{
				"oppdesarrollo_postgres": {Host: "pg.prod.internal", Schema: "oppdesarrollo", Login: "x"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearDBEnv(t)
			setCompleteDBEnv(t)

			cfg, err := NewResolver(tt.store, "oppdesarrollo_postgres").Resolve(context.Background())
			require.NoError(t, err)

			assert.Equal(t, SourceEnvironment, cfg.Source)
			assert.Equal(t, "db.internal", cfg.Host)
			assert.Equal(t, 5433, cfg.Port)
			assert.Equal(t, "oppdesarrollo", cfg.Database)
			assert.Equal(t, "dashboard", cfg.User)
			assert.Equal(t, "env-secret", cfg.Password)
		})
	}
}

// A partially populated orchestrator definition is skipped entirely; its
// fields must not survive into the environment-sourced result.
func TestResolveNeverMergesSources(t *testing.T) {
	clearDBEnv(t)
	setCompleteDBEnv(t)

	store := &fakeStore{defs: map[string]Definition{
		"oppdesarrollo_postgres": {
			Host:     "pg.prod.internal",
			Port:     5432,
			Schema:   "oppdesarrollo",
			Password: "orchestrator-secret",
			// Login intentionally empty, incomplete definition.
		},
	}}

	cfg, err := NewResolver(store, "oppdesarrollo_postgres").Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceEnvironment, cfg.Source)
	assert.Equal(t, "db.internal", cfg.Host, "orchestrator host must not survive into env-sourced config")
	assert.Equal(t, "env-secret", cfg.Password, "orchestrator password must not survive into env-sourced config")
}

// An orchestrator definition missing only the password is still complete:
// trust-auth setups legitimately store no password, and the environment
// password must not be substituted.
func TestResolveOrchestratorEmptyPasswordIsNotPatched(t *testing.T) {
	clearDBEnv(t)
	setCompleteDBEnv(t)

	store := &fakeStore{defs: map[string]Definition{
		"oppdesarrollo_postgres": {
			Host:   "pg.prod.internal",
			Port:   5432,
			Schema: "oppdesarrollo",
			Login:  "airflow_reader",
		},
	}}

	cfg, err := NewResolver(store, "oppdesarrollo_postgres").Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceOrchestrator, cfg.Source)
	assert.Empty(t, cfg.Password, "environment password must not be merged into orchestrator config")
}

func TestResolveEnvironmentDefaults(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_NAME", "oppdesarrollo")
	t.Setenv("DB_USER", "postgres")

	cfg, err := NewResolver(nil, "oppdesarrollo_postgres").Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, SourceEnvironment, cfg.Source)
}

func TestResolveDockerEnvHost(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DOCKER_ENV", "true")
	t.Setenv("DB_NAME", "oppdesarrollo")
	t.Setenv("DB_USER", "postgres")

	cfg, err := NewResolver(nil, "oppdesarrollo_postgres").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Host)
}

func TestResolveDockerEnvExplicitHostWins(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DOCKER_ENV", "true")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "oppdesarrollo")
	t.Setenv("DB_USER", "postgres")

	cfg, err := NewResolver(nil, "oppdesarrollo_postgres").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
}

func TestResolveNoUsableSource(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]string
	}{
		{name: "nothing set", set: nil},
		{name: "only name", set: map[string]string{"DB_NAME": "oppdesarrollo"}},
		{name: "only user", set: map[string]string{"DB_USER": "postgres"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearDBEnv(t)
			for k, v := range tt.set {
				t.Setenv(k, v)
			}

			_, err := NewResolver(nil, "oppdesarrollo_postgres").Resolve(context.Background())
			assert.ErrorIs(t, err, ErrNoConnectionSource)
		})
	}
}

func TestResolveInvalidPort(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("DB_NAME", "oppdesarrollo")
	t.Setenv("DB_USER", "postgres")

	_, err := NewResolver(nil, "oppdesarrollo_postgres").Resolve(context.Background())
	assert.Error(t, err)
}

// End-to-end over HTTP: a real (test) Airflow API answering the lookup.
func TestResolveAgainstAirflowServer(t *testing.T) {
	clearDBEnv(t)
	setCompleteDBEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/connections/oppdesarrollo_postgres" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(Definition{
			Host:     "pg.prod.internal",
			Port:     5432,
			Schema:   "oppdesarrollo",
			Login:    "airflow_reader",
			Password: "orchestrator-secret",
		})
	}))
	defer srv.Close()

	client := NewAirflowClient(srv.URL, "admin", "admin")
	cfg, err := NewResolver(client, "oppdesarrollo_postgres").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceOrchestrator, cfg.Source)
	assert.Equal(t, "pg.prod.internal", cfg.Host)

	// Unknown connection name falls back to the environment.
	cfg, err = NewResolver(client, "does_not_exist").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceEnvironment, cfg.Source)
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host: "localhost", Port: 5432, Database: "oppdesarrollo",
		User: "postgres", Password: "pw", Source: SourceEnvironment,
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=pw dbname=oppdesarrollo sslmode=disable",
		cfg.DSN())
	assert.Equal(t, "localhost:5432", cfg.Addr())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: loans
    user: loans
  redis:
    address: localhost:6379
workers:
  compute-emi:
    enabled: true
  notify-eligibility-result:
    enabled: false
    max_retries: 5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "loan-advisor-workers", cfg.App.Name)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, CatalogSourceFile, cfg.Catalog.Source)
	assert.Equal(t, "loan.assessment.completed", cfg.Kafka.AssessmentTopic)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "json", cfg.Logging.Format)

	emi := GetWorkerConfig(cfg, "compute-emi")
	assert.True(t, emi.Enabled)
	assert.Equal(t, 5, emi.MaxJobsActive)
	assert.Equal(t, 3, emi.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "notify-eligibility-result"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "notify-eligibility-result").MaxRetries)
	assert.True(t, IsWorkerEnabled(cfg, "compare-bank-offers"))
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("LOANS_DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: loans
    user: loans
    password: ${LOANS_DB_PASSWORD}
  redis:
    address: localhost:6379
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectedErr string
	}{
		{
			name:        "missing broker",
			mutate:      func(cfg *Config) { cfg.Camunda.BrokerAddress = "" },
			expectedErr: "camunda.broker_address",
		},
		{
			name:        "elasticsearch catalog without addresses",
			mutate:      func(cfg *Config) { cfg.Catalog.Source = CatalogSourceElasticsearch },
			expectedErr: "elasticsearch",
		},
		{
			name:        "http catalog without url",
			mutate:      func(cfg *Config) { cfg.Catalog.Source = CatalogSourceHTTP },
			expectedErr: "catalog.url",
		},
		{
			name:        "unknown catalog source",
			mutate:      func(cfg *Config) { cfg.Catalog.Source = "ftp" },
			expectedErr: "catalog.source",
		},
		{
			name:        "kafka enabled without brokers",
			mutate:      func(cfg *Config) { cfg.Kafka.Enabled = true },
			expectedErr: "kafka.brokers",
		},
		{
			name:        "tracing enabled without endpoint",
			mutate:      func(cfg *Config) { cfg.Tracing.Enabled = true },
			expectedErr: "jaeger_endpoint",
		},
		{
			name:   "valid",
			mutate: func(cfg *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KAFKA_BROKERS", "")
			t.Setenv("JAEGER_ENDPOINT", "")

			cfg := &Config{}
			cfg.Camunda.BrokerAddress = "localhost:26500"
			cfg.Database.Postgres.Host = "localhost"
			cfg.Database.Postgres.Database = "loans"
			cfg.Database.Postgres.User = "loans"
			cfg.Database.Redis.Address = "localhost:6379"
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"CASE_API_URL": "http://eux-rina-api.local",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.CaseAPI.Timeout)
	assert.Equal(t, "Europe/Oslo", cfg.Cases.Timezone)
	assert.Equal(t, 8, cfg.Cases.BatchWorkers)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "casebridge.audit", cfg.Kafka.AuditTopic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "info", cfg.LogLevel)

	loc, err := cfg.Cases.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Oslo", loc.String())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"CASE_API_URL":        "http://eux-rina-api.local",
		"KAFKA_BROKERS":       " broker-1:9092, ,broker-2:9092",
		"VIEW_BATCH_WORKERS":  "3",
		"CASEBRIDGE_TIMEZONE": "UTC",
		"LOG_LEVEL":           "DEBUG",
		"CASE_LOCK_TTL":       "5s",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Cases.BatchWorkers)
	assert.Equal(t, "UTC", cfg.Cases.Timezone)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Redis.LockTTL)
}

func TestFromLookup_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing case api", env: map[string]string{}, want: "BaseURL"},
		{name: "malformed duration", env: map[string]string{"CASE_API_URL": "http://x.local", "CASE_API_TIMEOUT": "soon"}, want: "CASE_API_TIMEOUT"},
		{name: "malformed int", env: map[string]string{"CASE_API_URL": "http://x.local", "VIEW_BATCH_WORKERS": "many"}, want: "VIEW_BATCH_WORKERS"},
		{name: "zero workers", env: map[string]string{"CASE_API_URL": "http://x.local", "VIEW_BATCH_WORKERS": "0"}, want: "BatchWorkers"},
		{name: "unknown timezone", env: map[string]string{"CASE_API_URL": "http://x.local", "CASEBRIDGE_TIMEZONE": "Mars/Olympus"}, want: "Mars/Olympus"},
		{name: "unknown log level", env: map[string]string{"CASE_API_URL": "http://x.local", "LOG_LEVEL": "loud"}, want: "LogLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

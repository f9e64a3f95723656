package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "CACHE_TTL", "AUDIT_SINK", "AUDIT_BATCH", "KAFKA_BROKERS", "HTTP_PORT"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, AuditSinkMemory, cfg.AuditSink)
	assert.Equal(t, 50, cfg.AuditBatch)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "8080", cfg.HTTPPort)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("AUDIT_SINK", "clickhouse")
	t.Setenv("AUDIT_PERIOD", "250ms")
	t.Setenv("AUDIT_BATCH", "200")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := LoadConfig()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, AuditSinkClickHouse, cfg.AuditSink)
	assert.Equal(t, 250*time.Millisecond, cfg.AuditPeriod)
	assert.Equal(t, 200, cfg.AuditBatch)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "cinco minutos")
	t.Setenv("AUDIT_PERIOD", "-1s")
	t.Setenv("AUDIT_BATCH", "0")

	cfg := LoadConfig()

	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Second, cfg.AuditPeriod)
	assert.Equal(t, 50, cfg.AuditBatch)
}

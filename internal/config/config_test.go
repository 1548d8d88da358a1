package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: test-app
  port: 9000
jwt:
  secret: s3cret
  expire_hours: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-app", cfg.App.Name)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Empty(t, cfg.App.TrustedProxies)
	assert.Equal(t, 10*time.Minute, cfg.Engagement.ViewWindow)
	assert.Equal(t, 3, cfg.Engagement.ViewMaxAttempts)
	assert.Equal(t, "database", cfg.Audit.Sink)
	assert.Equal(t, "serializable", cfg.Database.TxIsolation)
	assert.Equal(t, 200*time.Millisecond, cfg.Redis.OpTimeout)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireDuration())
	assert.Same(t, cfg, Get())
}

func TestLoadParsesRateLimitActions(t *testing.T) {
	path := writeConfig(t, `
app:
  trusted_proxies: ["10.0.0.0/8"]
rate_limit:
  enabled: true
  actions:
    toggle_like:
      window: 90s
      normal: 2
      premium: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.App.TrustedProxies)
	rule, ok := cfg.RateLimit.Actions["toggle_like"]
	require.True(t, ok)
	assert.Equal(t, 90*time.Second, rule.Window)
	assert.Equal(t, 2, rule.Normal)
	assert.Equal(t, 4, rule.Premium)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero window", "engagement:\n  view_window: 0s\n"},
		{"zero attempts", "engagement:\n  view_max_attempts: 0\n"},
		{"unknown sink", "audit:\n  sink: stdout\n"},
		{"bad rule", "rate_limit:\n  actions:\n    comment:\n      window: 1m\n      normal: 0\n      premium: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestKafkaTopicFallsBackToKey(t *testing.T) {
	k := KafkaConfig{Topics: map[string]string{"activity_log": "custom.topic"}}
	assert.Equal(t, "custom.topic", k.Topic("activity_log"))
	assert.Equal(t, "other", k.Topic("other"))
}

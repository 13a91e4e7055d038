package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactKVs(t *testing.T) {
	got := redactKVs([]interface{}{"course", "611", "api_key", "abc123", "X-API-Key", "zzz", "dangling"})
	assert.Equal(t, []interface{}{"course", "611", "api_key", "[REDACTED]", "X-API-Key", "[REDACTED]", "dangling"}, got)

	got = redactKVs([]interface{}{"apiKey", "abc"})
	assert.Equal(t, []interface{}{"apiKey", "[REDACTED]"}, got)

	assert.Empty(t, redactKVs(nil))
}

func TestNopWith(t *testing.T) {
	l := Nop().With("component", "test")
	assert.NotNil(t, l.SugaredLogger)
	l.Info("ignored", "k", 1)
}

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		env      string
		expected bool
	}{
		{env: "", expected: true},
		{env: "development", expected: true},
		{env: "dev", expected: true},
		{env: "production", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			assert.Equal(t, tt.expected, IsDevelopment())
		})
	}
}

func TestDevelopmentFieldFilter(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	base := &logger{entry: L.(*logger).entry}

	assert.Same(t, base, base.WithField("remote_addr", "127.0.0.1"))
	assert.NotSame(t, base, base.WithField("period", 30))
	assert.NotSame(t, base, base.WithField("sfmc_endpoint", "/x"))
	assert.Same(t, base, base.WithFields(Fields{"user_agent": "curl"}))
}

package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOTLPHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", nil},
		{"single", "Authorization=Basic%20dG9rZW4=", map[string]string{"Authorization": "Basic dG9rZW4="}},
		{"multiple", "a=1, b=two", map[string]string{"a": "1", "b": "two"}},
		{"malformed pair skipped", "novalue,x=y", map[string]string{"x": "y"}},
		{"bad escape kept raw", "k=%zz", map[string]string{"k": "%zz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOTLPHeaders(tt.raw))
		})
	}
}

func TestSetupDisabled(t *testing.T) {
	ctx := context.Background()

	tel, err := Setup(ctx, Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tel.Logger)
	assert.NotNil(t, tel.TracerProvider)
	assert.NotNil(t, tel.MeterProvider)

	assert.NoError(t, tel.Shutdown(ctx))
}

func TestConfigServiceName(t *testing.T) {
	assert.Equal(t, DefaultServiceName, Config{}.serviceName())
	assert.Equal(t, "flyer-worker", Config{ServiceName: "flyer-worker"}.serviceName())
}

package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer("").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestSetupStdoutExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	shutdown, err := Setup(ctx, Config{ServiceName: "test", Stdout: true, Writer: &buf})
	require.NoError(t, err)

	_, span := Tracer("test").Start(ctx, "claims.verify_request")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	counter, err := Meter("test").Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, shutdown(ctx))
	assert.Contains(t, buf.String(), "claims.verify_request")

	// Leave the global providers disabled for other tests.
	_, err = Setup(ctx, Config{})
	require.NoError(t, err)
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Stdout: true}.Enabled())
	assert.True(t, Config{Endpoint: "http://localhost:4318"}.Enabled())
}

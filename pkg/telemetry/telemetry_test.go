package telemetry_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/telemetry"
)

func TestInit_None(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	shutdown, err := telemetry.Init(telemetry.Config{ServiceName: "test", Exporter: "none"}, &out, slog.Default())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Empty(t, out.String())
}

package otel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/config"
	"todolist/infras/otel"
)

func TestNew_WithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "todolist"
	cfg.App.Version = "test"

	instance := otel.New(cfg)

	ctx, scope := instance.NewScope(context.Background(), "test", "test.span")
	require.NotNil(t, ctx)

	scope.SetAttributes(map[string]any{
		"bool":   true,
		"string": "value",
		"int":    1,
		"slice":  []string{"a"},
		"other":  1.5,
	})
	scope.AddEvent("event")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.End()

	assert.NoError(t, instance.Shutdown(context.Background()))
}

package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunNonCritical_ErrorNoEscala(t *testing.T) {
	called := false
	assert.NotPanics(t, func() {
		RunNonCritical(context.Background(), "test_hook", func(ctx context.Context) error {
			called = true
			return errors.New("boom")
		})
	})
	assert.True(t, called)
}

func TestRunNonCritical_PanicNoEscala(t *testing.T) {
	assert.NotPanics(t, func() {
		RunNonCritical(context.Background(), "test_hook", func(ctx context.Context) error {
			panic("boom")
		})
	})
}

func TestRunNonCritical_ContextConTimeout(t *testing.T) {
	RunNonCritical(context.Background(), "test_hook", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "el hook debe recibir un contexto con deadline")
		return nil
	})
}

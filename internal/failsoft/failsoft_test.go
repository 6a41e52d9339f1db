package failsoft

import (
	"errors"
	"testing"

	"github.com/leandrodaf/gong/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newPolicy() (Policy, *observer.ObservedLogs, *[]string) {
	core, logs := observer.New(zapcore.DebugLevel)
	var failed []string
	return Policy{
		Logger:    logger.NewZapLoggerFrom(zap.New(core)),
		OnFailure: func(op string) { failed = append(failed, op) },
	}, logs, &failed
}

func TestRunSuccess(t *testing.T) {
	p, logs, failed := newPolicy()

	assert.True(t, p.Run("connect", func() error { return nil }))
	assert.Zero(t, logs.Len())
	assert.Empty(t, *failed)
}

func TestRunErrorIsLogged(t *testing.T) {
	p, logs, failed := newPolicy()

	ok := p.Run("connect", func() error { return errors.New("refused") }, p.Logger.Field().String("source", "pad"))

	assert.False(t, ok)
	assert.Equal(t, []string{"connect"}, *failed)
	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "connect", ctx["op"])
	assert.Equal(t, "refused", ctx["error"])
	assert.Equal(t, "pad", ctx["source"])
}

func TestRunRecoversPanic(t *testing.T) {
	p, logs, failed := newPolicy()

	ok := p.Run("observe", func() error { panic("observer exploded") })

	assert.False(t, ok)
	assert.Equal(t, []string{"observe"}, *failed)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panic: observer exploded", logs.All()[0].ContextMap()["error"])
}

func TestRunWithoutLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.False(t, Policy{}.Run("send", func() error { return errors.New("x") }))
	})
}

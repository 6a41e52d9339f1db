package logger

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	log.Warn("connect failed",
		log.Field().String("source", "Keystation"),
		log.Field().Int("attempt", 2),
		log.Field().Error("error", errors.New("boom")))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "connect failed", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "Keystation", ctx["source"])
	assert.EqualValues(t, 2, ctx["attempt"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestZapLoggerSkipsForeignFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	log.Info("hello", nil, &zapField{})

	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].Context)
}

func TestZapLevelMapping(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, zapLevel(contracts.InfoLevel))
	assert.Equal(t, zapcore.DebugLevel, zapLevel(contracts.DebugLevel))
	assert.Equal(t, zapcore.WarnLevel, zapLevel(contracts.WarnLevel))
	assert.Equal(t, zapcore.ErrorLevel, zapLevel(contracts.ErrorLevel))
	assert.Equal(t, zapcore.FatalLevel, zapLevel(contracts.FatalLevel))
}

func TestSetLevelFiltersEntries(t *testing.T) {
	l := NewZapLogger().(*ZapLogger)
	l.SetLevel(contracts.ErrorLevel)
	assert.False(t, l.level.Enabled(zapcore.WarnLevel))
	assert.True(t, l.level.Enabled(zapcore.ErrorLevel))

	l.SetLevel(contracts.DebugLevel)
	assert.True(t, l.level.Enabled(zapcore.DebugLevel))
}

func TestSetDestinationWhileLogging(t *testing.T) {
	l, ok := NewZapLogger().(*ZapLogger)
	require.True(t, ok)
	l.SetLevel(contracts.ErrorLevel)
	path := filepath.Join(t.TempDir(), "gong.log")

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					l.Debug("polling", l.Field().String("source", "Pad Out"))
				}
			}
		}()
	}

	l.SetDestination(contracts.FileLog, path)
	close(stop)
	wg.Wait()

	l.Error("after switch")
	require.NoError(t, l.Sync())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "after switch")
	assert.NotContains(t, string(data), "polling")
}

package audioerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardSuccess(t *testing.T) {
	assert.NoError(t, Guard(StatusOK, "c"))
}

func TestGuardFailure(t *testing.T) {
	for _, status := range []Status{StatusGraphNodeNotFound, StatusUnitRenderTimeout, StatusFileEndOfFile, 777} {
		err := Guard(status, "c")
		require.Error(t, err)

		var ae *AudioError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "c", ae.Comment)
		assert.Equal(t, Translate(status, "c").Message, ae.Message)
	}
}

func TestIsMatchesWrappedErrors(t *testing.T) {
	err := fmt.Errorf("render: %w", Guard(StatusUnitRenderTimeout, "AudioUnitRender"))

	assert.True(t, Is(err, UnitRenderTimeout))
	assert.False(t, Is(err, UnitUninitialized))
	assert.False(t, Is(errors.New("plain"), UnitRenderTimeout))
	assert.False(t, Is(nil, UnitRenderTimeout))
}

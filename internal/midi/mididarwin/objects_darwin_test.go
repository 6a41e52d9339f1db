//go:build darwin
// +build darwin

package mididarwin

import (
	"testing"

	"github.com/leandrodaf/gong/internal/logger"
	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEndpointIDsStableAcrossEnumerations(t *testing.T) {
	d, err := NewDriver(&contracts.HubOptions{Logger: logger.NewZapLoggerFrom(zap.NewNop())})
	require.NoError(t, err)

	first, err := d.Sources()
	require.NoError(t, err)
	second, err := d.Sources()
	require.NoError(t, err)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID(), second[i].ID())
	}

	firstDst, err := d.Destinations()
	require.NoError(t, err)
	secondDst, err := d.Destinations()
	require.NoError(t, err)
	require.Len(t, secondDst, len(firstDst))
	for i := range firstDst {
		assert.Equal(t, firstDst[i].ID(), secondDst[i].ID())
	}
}

package mididarwin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Same layout as go-coremidi's Source and Destination.
type object struct{ name string }

type fakeEndpoint struct {
	endpoint uint32
	*object
}

func TestEndpointIDIgnoresObjectPointer(t *testing.T) {
	first := fakeEndpoint{42, &object{"Keys"}}
	second := fakeEndpoint{42, &object{"Keys"}}

	assert.Equal(t, "src42", endpointID("src", first))
	assert.Equal(t, endpointID("src", first), endpointID("src", second))
	assert.NotEqual(t, endpointID("src", first), endpointID("src", fakeEndpoint{43, &object{"Keys"}}))
}

func TestEndpointRefWithoutHandle(t *testing.T) {
	_, ok := endpointRef(struct{ name string }{"x"})
	assert.False(t, ok)
	_, ok = endpointRef(7)
	assert.False(t, ok)
	assert.Equal(t, "dst?", endpointID("dst", "not an endpoint"))
}

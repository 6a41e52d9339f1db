package midi

import (
	"sync"

	"github.com/leandrodaf/gong/internal/hub"
	"github.com/leandrodaf/gong/sdk/contracts"
)

// NewHub creates a MIDI hub with the specified options.
// It applies default options, selects the platform driver when none was
// given and opens the hub's client and ports.
//
// A hub whose platform objects could not be created is still returned; it
// runs degraded and logs every operation it cannot perform.
func NewHub(opts ...contracts.Option) (contracts.Hub, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	h, err := hub.New(&options)
	if err != nil {
		return nil, err
	}
	return h, nil
}

var defaultHub = sync.OnceValues(func() (contracts.Hub, error) {
	return NewHub()
})

// Default returns the process-wide hub, creating it on first use with the
// default options.
func Default() (contracts.Hub, error) {
	return defaultHub()
}

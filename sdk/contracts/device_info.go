package contracts

// DeviceInfo contains information about a MIDI endpoint.
type DeviceInfo struct {
	ID           string    // Opaque platform handle.
	Name         string    // Endpoint name.
	Manufacturer string    // Device manufacturer.
	EntityName   string    // Name of the entity to which the endpoint belongs.
	Direction    Direction // Source or destination.
}

package midi

import (
	"github.com/leandrodaf/gong/sdk/contracts"
)

// ListEndpoints walks every device and entity of the driver and describes
// each endpoint it finds. Devices or entities that fail to enumerate are
// skipped; only a failure to list devices at all is returned.
func ListEndpoints(driver contracts.Driver) ([]contracts.DeviceInfo, error) {
	devices, err := driver.Devices()
	if err != nil {
		return nil, err
	}

	var infos []contracts.DeviceInfo
	for _, d := range devices {
		entities, err := d.Entities()
		if err != nil {
			continue
		}
		for _, e := range entities {
			if sources, err := e.Sources(); err == nil {
				for _, s := range sources {
					infos = append(infos, describe(d, e, s))
				}
			}
			if destinations, err := e.Destinations(); err == nil {
				for _, dst := range destinations {
					infos = append(infos, describe(d, e, dst))
				}
			}
		}
	}
	return infos, nil
}

func describe(d contracts.Device, e contracts.Entity, ep contracts.Endpoint) contracts.DeviceInfo {
	return contracts.DeviceInfo{
		ID:           ep.ID(),
		Name:         ep.Name(),
		Manufacturer: d.Manufacturer(),
		EntityName:   e.Name(),
		Direction:    ep.Direction(),
	}
}

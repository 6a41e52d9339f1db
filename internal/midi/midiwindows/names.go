package midiwindows

import "strconv"

// endpointKey identifies a winmm device across enumerations. winmm indexes
// shift when a device is unplugged, so devices are keyed by name and, among
// devices sharing a name, by their position in that group.
type endpointKey struct {
	name    string
	ordinal int
}

func (k endpointKey) id(prefix string) string {
	if k.ordinal == 0 {
		return prefix + ":" + k.name
	}
	return prefix + ":" + k.name + "#" + strconv.Itoa(k.ordinal+1)
}

// keysOf assigns a key to every entry of a winmm device name list.
func keysOf(names []string) []endpointKey {
	seen := make(map[string]int, len(names))
	keys := make([]endpointKey, len(names))
	for i, n := range names {
		keys[i] = endpointKey{name: n, ordinal: seen[n]}
		seen[n]++
	}
	return keys
}

// indexOf resolves a key to the device's current winmm index.
func indexOf(names []string, key endpointKey) (uint32, bool) {
	ordinal := 0
	for i, n := range names {
		if n != key.name {
			continue
		}
		if ordinal == key.ordinal {
			return uint32(i), true
		}
		ordinal++
	}
	return 0, false
}

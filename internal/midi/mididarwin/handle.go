package mididarwin

import (
	"reflect"
	"strconv"
)

// endpointRef extracts the MIDIEndpointRef from a go-coremidi endpoint
// value. The binding keeps the ref in an unexported unsigned field next to
// a per-enumeration object pointer, so only the ref is stable.
func endpointRef(endpoint any) (uint64, bool) {
	v := reflect.ValueOf(endpoint)
	if v.Kind() != reflect.Struct {
		return 0, false
	}
	for i := 0; i < v.NumField(); i++ {
		switch f := v.Field(i); f.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return f.Uint(), true
		}
	}
	return 0, false
}

// endpointID renders an endpoint handle with a direction prefix.
func endpointID(prefix string, endpoint any) string {
	ref, ok := endpointRef(endpoint)
	if !ok {
		return prefix + "?"
	}
	return prefix + strconv.FormatUint(ref, 10)
}

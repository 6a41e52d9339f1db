package audioerror

import "fmt"

// Category identifies the framework family a Message belongs to.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryAudioGraph
	CategoryAudioUnit
	CategoryAudioFile
)

func (c Category) String() string {
	switch c {
	case CategoryAudioGraph:
		return "audioGraph"
	case CategoryAudioUnit:
		return "audioUnit"
	case CategoryAudioFile:
		return "audioFile"
	default:
		return "unknown"
	}
}

// Message is one variant of the closed error taxonomy. Known variants leave
// Status zero; the Unknown variant carries the untranslated code.
// Messages are comparable with ==.
type Message struct {
	Category Category
	Reason   string
	Status   Status
}

// Unknown returns the fallback variant for a status that has no known
// translation.
func Unknown(status Status) Message {
	return Message{Category: CategoryUnknown, Status: status}
}

// String renders the message as category(reason), or unknown(status: n).
func (m Message) String() string {
	if m.Category == CategoryUnknown {
		return fmt.Sprintf("unknown(status: %d)", int32(m.Status))
	}
	return fmt.Sprintf("%s(%s)", m.Category, m.Reason)
}

func graph(reason string) Message {
	return Message{Category: CategoryAudioGraph, Reason: reason}
}

func unit(reason string) Message {
	return Message{Category: CategoryAudioUnit, Reason: reason}
}

func file(reason string) Message {
	return Message{Category: CategoryAudioFile, Reason: reason}
}

// AudioGraph variants.
var (
	GraphNodeNotFound             = graph("nodeNotFound")
	GraphInvalidConnection        = graph("invalidConnection")
	GraphOutputNodeError          = graph("outputNodeError")
	GraphCannotDoInCurrentContext = graph("cannotDoInCurrentContext")
	GraphInvalidAudioUnit         = graph("invalidAudioUnit")
)

// AudioUnit variants.
var (
	UnitInvalidProperty                   = unit("invalidProperty")
	UnitInvalidParameter                  = unit("invalidParameter")
	UnitInvalidElement                    = unit("invalidElement")
	UnitNoConnection                      = unit("noConnection")
	UnitFailedInitialization              = unit("failedInitialization")
	UnitTooManyFramesToProcess            = unit("tooManyFramesToProcess")
	UnitInvalidFile                       = unit("invalidFile")
	UnitUnknownFileType                   = unit("unknownFileType")
	UnitFileNotSpecified                  = unit("fileNotSpecified")
	UnitFormatNotSupported                = unit("formatNotSupported")
	UnitUninitialized                     = unit("uninitialized")
	UnitInvalidScope                      = unit("invalidScope")
	UnitPropertyNotWritable               = unit("propertyNotWritable")
	UnitCannotDoInCurrentContext          = unit("cannotDoInCurrentContext")
	UnitInvalidPropertyValue              = unit("invalidPropertyValue")
	UnitPropertyNotInUse                  = unit("propertyNotInUse")
	UnitInitialized                       = unit("initialized")
	UnitInvalidOfflineRender              = unit("invalidOfflineRender")
	UnitUnauthorized                      = unit("unauthorized")
	UnitAudioComponentInstanceInvalidated = unit("audioComponentInstanceInvalidated")
	UnitRenderTimeout                     = unit("renderTimeout")
)

// AudioFile variants.
var (
	FileUnspecified               = file("unspecified")
	FileUnsupportedFileType       = file("unsupportedFileType")
	FileUnsupportedDataFormat     = file("unsupportedDataFormat")
	FileUnsupportedProperty       = file("unsupportedProperty")
	FileBadPropertySize           = file("badPropertySize")
	FilePermissions               = file("permissions")
	FileNotOptimized              = file("notOptimized")
	FileInvalidChunk              = file("invalidChunk")
	FileDoesNotAllow64BitDataSize = file("doesNotAllow64BitDataSize")
	FileInvalidPacketOffset       = file("invalidPacketOffset")
	FileInvalidFile               = file("invalidFile")
	FileOperationNotSupported     = file("operationNotSupported")
	FileNotOpen                   = file("notOpen")
	FileEndOfFile                 = file("endOfFile")
	FilePosition                  = file("position")
	FileNotFound                  = file("fileNotFound")
)

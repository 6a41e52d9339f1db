package audioerror

type entry struct {
	status  Status
	message Message
}

// Lookup runs graph, then unit, then file; the first match wins.
var (
	graphTable = []entry{
		{StatusGraphNodeNotFound, GraphNodeNotFound},
		{StatusGraphInvalidConnection, GraphInvalidConnection},
		{StatusGraphOutputNodeErr, GraphOutputNodeError},
		{StatusGraphCannotDoInCurrentContext, GraphCannotDoInCurrentContext},
		{StatusGraphInvalidAudioUnit, GraphInvalidAudioUnit},
	}

	unitTable = []entry{
		{StatusUnitInvalidProperty, UnitInvalidProperty},
		{StatusUnitInvalidParameter, UnitInvalidParameter},
		{StatusUnitInvalidElement, UnitInvalidElement},
		{StatusUnitNoConnection, UnitNoConnection},
		{StatusUnitFailedInitialization, UnitFailedInitialization},
		{StatusUnitTooManyFramesToProcess, UnitTooManyFramesToProcess},
		{StatusUnitInvalidFile, UnitInvalidFile},
		{StatusUnitUnknownFileType, UnitUnknownFileType},
		{StatusUnitFileNotSpecified, UnitFileNotSpecified},
		{StatusUnitFormatNotSupported, UnitFormatNotSupported},
		{StatusUnitUninitialized, UnitUninitialized},
		{StatusUnitInvalidScope, UnitInvalidScope},
		{StatusUnitPropertyNotWritable, UnitPropertyNotWritable},
		{StatusUnitCannotDoInCurrentContext, UnitCannotDoInCurrentContext},
		{StatusUnitInvalidPropertyValue, UnitInvalidPropertyValue},
		{StatusUnitPropertyNotInUse, UnitPropertyNotInUse},
		{StatusUnitInitialized, UnitInitialized},
		{StatusUnitInvalidOfflineRender, UnitInvalidOfflineRender},
		{StatusUnitUnauthorized, UnitUnauthorized},
		{StatusComponentInstanceInvalidated, UnitAudioComponentInstanceInvalidated},
		{StatusUnitRenderTimeout, UnitRenderTimeout},
	}

	fileTable = []entry{
		{StatusFileUnspecified, FileUnspecified},
		{StatusFileUnsupportedFileType, FileUnsupportedFileType},
		{StatusFileUnsupportedDataFormat, FileUnsupportedDataFormat},
		{StatusFileUnsupportedProperty, FileUnsupportedProperty},
		{StatusFileBadPropertySize, FileBadPropertySize},
		{StatusFilePermissions, FilePermissions},
		{StatusFileNotOptimized, FileNotOptimized},
		{StatusFileInvalidChunk, FileInvalidChunk},
		{StatusFileDoesNotAllow64BitDataSize, FileDoesNotAllow64BitDataSize},
		{StatusFileInvalidPacketOffset, FileInvalidPacketOffset},
		{StatusFileInvalidFile, FileInvalidFile},
		{StatusFileOperationNotSupported, FileOperationNotSupported},
		{StatusFileNotOpen, FileNotOpen},
		{StatusFileEndOfFile, FileEndOfFile},
		{StatusFilePosition, FilePosition},
		{StatusFileNotFound, FileNotFound},
	}

	lookup = buildLookup(graphTable, unitTable, fileTable)
)

func buildLookup(tables ...[]entry) map[Status]Message {
	m := make(map[Status]Message)
	for _, table := range tables {
		for _, e := range table {
			if _, taken := m[e.status]; taken {
				continue
			}
			m[e.status] = e.message
		}
	}
	return m
}

// Translate maps status to its structured message. It never fails: codes
// outside the known tables become Unknown(status). Callers are expected to
// check for StatusOK first; see Guard.
func Translate(status Status, comment string) *AudioError {
	msg, ok := lookup[status]
	if !ok {
		msg = Unknown(status)
	}
	return &AudioError{Message: msg, Comment: comment, Status: status}
}

// Known returns every translatable message in table order. Variants whose
// status is shadowed by an earlier table are still listed.
func Known() []Message {
	out := make([]Message, 0, len(graphTable)+len(unitTable)+len(fileTable))
	for _, table := range [][]entry{graphTable, unitTable, fileTable} {
		for _, e := range table {
			out = append(out, e.message)
		}
	}
	return out
}

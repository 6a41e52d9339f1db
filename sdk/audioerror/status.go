package audioerror

import "strconv"

// Status is an OSStatus result code returned by the platform audio layer.
type Status int32

// StatusOK is the success sentinel (noErr).
const StatusOK Status = 0

// AUGraph statuses.
const (
	StatusGraphNodeNotFound             Status = -10860
	StatusGraphInvalidConnection        Status = -10861
	StatusGraphOutputNodeErr            Status = -10862
	StatusGraphCannotDoInCurrentContext Status = -10863
	StatusGraphInvalidAudioUnit         Status = -10864
)

// AudioUnit and AudioComponent statuses.
// StatusUnitCannotDoInCurrentContext shares its value with the AUGraph constant.
const (
	StatusUnitInvalidProperty          Status = -10879
	StatusUnitInvalidParameter         Status = -10878
	StatusUnitInvalidElement           Status = -10877
	StatusUnitNoConnection             Status = -10876
	StatusUnitFailedInitialization     Status = -10875
	StatusUnitTooManyFramesToProcess   Status = -10874
	StatusUnitInvalidFile              Status = -10871
	StatusUnitUnknownFileType          Status = -10870
	StatusUnitFileNotSpecified         Status = -10869
	StatusUnitFormatNotSupported       Status = -10868
	StatusUnitUninitialized            Status = -10867
	StatusUnitInvalidScope             Status = -10866
	StatusUnitPropertyNotWritable      Status = -10865
	StatusUnitCannotDoInCurrentContext Status = -10863
	StatusUnitInvalidPropertyValue     Status = -10851
	StatusUnitPropertyNotInUse         Status = -10850
	StatusUnitInitialized              Status = -10849
	StatusUnitInvalidOfflineRender     Status = -10848
	StatusUnitUnauthorized             Status = -10847
	StatusComponentInstanceInvalidated Status = -66749
	StatusUnitRenderTimeout            Status = -66745
)

// AudioFile statuses. Most are four-character codes.
const (
	StatusFileUnspecified               Status = 0x7768743F // 'wht?'
	StatusFileUnsupportedFileType       Status = 0x7479703F // 'typ?'
	StatusFileUnsupportedDataFormat     Status = 0x666D743F // 'fmt?'
	StatusFileUnsupportedProperty       Status = 0x7074793F // 'pty?'
	StatusFileBadPropertySize           Status = 0x2173697A // '!siz'
	StatusFilePermissions               Status = 0x70726D3F // 'prm?'
	StatusFileNotOptimized              Status = 0x6F70746D // 'optm'
	StatusFileInvalidChunk              Status = 0x63686B3F // 'chk?'
	StatusFileDoesNotAllow64BitDataSize Status = 0x6F66663F // 'off?'
	StatusFileInvalidPacketOffset       Status = 0x70636B3F // 'pck?'
	StatusFileInvalidFile               Status = 0x6474613F // 'dta?'
	StatusFileOperationNotSupported     Status = 0x6F703F3F // 'op??'
	StatusFileNotOpen                   Status = -38
	StatusFileEndOfFile                 Status = -39
	StatusFilePosition                  Status = -40
	StatusFileNotFound                  Status = -43
)

// FourCC returns the four-character code spelled by s and true when every
// byte is printable ASCII.
func (s Status) FourCC() (string, bool) {
	u := uint32(s)
	b := []byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return "", false
		}
	}
	return string(b), true
}

// String renders s as a quoted four-character code when printable,
// otherwise as a decimal integer.
func (s Status) String() string {
	if code, ok := s.FourCC(); ok {
		return "'" + code + "'"
	}
	return strconv.FormatInt(int64(s), 10)
}

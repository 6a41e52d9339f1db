package audioerror

import (
	"errors"
	"fmt"
)

// AudioError is a translated platform status together with the caller's
// description of the operation that produced it.
type AudioError struct {
	Message Message
	Comment string
	// Status is the raw code the message was translated from.
	Status Status
}

// Error renders the error as AudioError(message: ..., comment: ...).
func (e *AudioError) Error() string {
	return fmt.Sprintf("AudioError(message: %s, comment: %s)", e.Message, e.Comment)
}

// Is reports whether err, or any error it wraps, is an AudioError carrying m.
func Is(err error, m Message) bool {
	var ae *AudioError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Message == m
}

// Guard returns nil for StatusOK and the translated error otherwise. Wrap
// every platform call that yields an OSStatus with it.
func Guard(status Status, comment string) error {
	if status == StatusOK {
		return nil
	}
	return Translate(status, comment)
}

package sequence

import "errors"

var (
	ErrNotMounted      = errors.New("sequence not mounted")
	ErrUnknownTrack    = errors.New("unknown track")
	ErrIndexOutOfRange = errors.New("index out of range")
)

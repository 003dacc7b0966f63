package playback

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoAudio           = errors.New("no audio loaded")
)

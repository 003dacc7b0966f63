package playback

import (
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Output is where decoded audio goes. The speaker package is the only real
// implementation; tests swap in their own.
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerOutput struct{}

// Speaker returns the system audio output.
func Speaker() Output { return speakerOutput{} }

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Clear()                  { speaker.Clear() }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }

package analysis

import "github.com/iburimskiy/ferrofluid/internal/ferrofluid"

// SampleReader yields the most recent mono samples of a stream.
type SampleReader interface {
	Samples(n int) []float64
}

// Monitor analyses a live stream. While gate reports false it returns no
// frame and the shape idles.
type Monitor struct {
	reader   SampleReader
	analyser *Analyser
	gate     func() bool
	bands    ferrofluid.BandEnergies
}

func NewMonitor(reader SampleReader, analyser *Analyser, gate func() bool) *Monitor {
	if analyser == nil {
		analyser = NewAnalyser(DefaultFFTSize)
	}
	return &Monitor{reader: reader, analyser: analyser, gate: gate}
}

func (m *Monitor) Frame() ([]uint8, *ferrofluid.BandEnergies) {
	if m.reader == nil || (m.gate != nil && !m.gate()) {
		return nil, nil
	}
	freq := m.analyser.Analyse(m.reader.Samples(m.analyser.FFTSize()))
	m.bands = SplitBands(freq)
	return freq, &m.bands
}

// Bands returns the energies of the last analysed frame.
func (m *Monitor) Bands() ferrofluid.BandEnergies { return m.bands }

// BufferSource analyses a fully decoded track frame by frame. Frame n ends
// at sample round(n*sampleRate/fps), so frames stay aligned with a clock that
// advances exactly 1/fps per frame.
type BufferSource struct {
	samples    []float64
	sampleRate int64
	fps        int64
	frame      int64
	analyser   *Analyser
	bands      ferrofluid.BandEnergies
}

// NewBufferSource plays samples recorded at sampleRate as fps frames per second.
func NewBufferSource(samples []float64, sampleRate, fps int, analyser *Analyser) *BufferSource {
	if analyser == nil {
		analyser = NewAnalyser(DefaultFFTSize)
	}
	if fps <= 0 {
		fps = 60
	}
	if sampleRate <= 0 {
		sampleRate = fps
	}
	return &BufferSource{
		samples:    samples,
		sampleRate: int64(sampleRate),
		fps:        int64(fps),
		analyser:   analyser,
	}
}

// cursor is the sample index where frame n ends.
func (b *BufferSource) cursor(n int64) int64 {
	return (2*n*b.sampleRate + b.fps) / (2 * b.fps)
}

func (b *BufferSource) Frame() ([]uint8, *ferrofluid.BandEnergies) {
	if b.Done() {
		return nil, nil
	}
	b.frame++
	end := min(b.cursor(b.frame), int64(len(b.samples)))
	freq := b.analyser.Analyse(b.samples[:end])
	b.bands = SplitBands(freq)
	return freq, &b.bands
}

// Done reports whether the cursor has passed the end of the track.
func (b *BufferSource) Done() bool { return b.cursor(b.frame) >= int64(len(b.samples)) }

// Frames is the number of frames the track spans.
func (b *BufferSource) Frames() int {
	n := int64(len(b.samples))
	f := (n*b.fps + b.sampleRate - 1) / b.sampleRate
	for f > 0 && b.cursor(f-1) >= n {
		f--
	}
	return int(f)
}

func (b *BufferSource) Bands() ferrofluid.BandEnergies { return b.bands }

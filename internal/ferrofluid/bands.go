package ferrofluid

// BandEnergies carries the averaged magnitudes (0..255) that drive the shape.
// Bass, Mid and Treble shape the large lobes; the *Small fields drive the
// superimposed small waves.
type BandEnergies struct {
	Bass, Mid, Treble                float64
	BassSmall, MidSmall, TrebleSmall float64
}

// NewBandEnergies uses the same values for the large lobes and the small waves.
func NewBandEnergies(bass, mid, treble float64) BandEnergies {
	return BandEnergies{
		Bass:        bass,
		Mid:         mid,
		Treble:      treble,
		BassSmall:   bass,
		MidSmall:    mid,
		TrebleSmall: treble,
	}
}

// defaultBands is used when magnitudes arrive without band energies.
var defaultBands = NewBandEnergies(64, 64, 64)

// Midpoint is the band value at which a point sits on the resting circle.
const Midpoint = 128

// pick returns the large and small driver for ring index i: 0 bass, 1 mid, 2 treble.
func (b *BandEnergies) pick(i int) (float64, float64) {
	switch i % 3 {
	case 0:
		return b.Bass, b.BassSmall
	case 1:
		return b.Mid, b.MidSmall
	default:
		return b.Treble, b.TrebleSmall
	}
}

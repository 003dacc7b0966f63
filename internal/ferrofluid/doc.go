// Package ferrofluid implements the audio-reactive shape: a ring of control
// points that follows band energies (or an idle wobble when there is no audio)
// and a renderer that turns the ring into a closed Catmull-Rom curve.
//
// A typical tick looks like:
//
//	model.Update(magnitudes, &bands)
//	renderer.Render(surface, model.Points(), ferrofluid.Options{ShowOutline: true})
//
// Model and Renderer are not safe for concurrent use; both are meant to be
// driven from the same loop, update before render.
package ferrofluid

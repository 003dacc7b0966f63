package playback

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Extensions lists the file patterns the decoder understands.
var Extensions = []string{"*.wav", "*.mp3", "*.flac", "*.ogg"}

// Decode opens path and picks a decoder by extension. Closing the returned
// streamer closes the file.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".mp3", ".flac", ".ogg":
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &fileStreamer{StreamSeekCloser: streamer, file: f}, format, nil
}

// fileStreamer closes the backing file together with the decoder.
type fileStreamer struct {
	beep.StreamSeekCloser
	file *os.File
}

func (s *fileStreamer) Close() error {
	err := s.StreamSeekCloser.Close()
	if cerr := s.file.Close(); err == nil && cerr != nil && !errors.Is(cerr, os.ErrClosed) {
		err = cerr
	}
	return err
}

// ReadAll decodes the whole file into mono samples.
func ReadAll(path string) ([]float64, beep.Format, error) {
	streamer, format, err := Decode(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	defer streamer.Close()

	out := make([]float64, 0, max(streamer.Len(), 0))
	buf := make([][2]float64, 512)
	for {
		n, ok := streamer.Stream(buf)
		for _, s := range buf[:n] {
			out = append(out, (s[0]+s[1])*0.5)
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, beep.Format{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return out, format, nil
}

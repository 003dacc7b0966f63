package playback

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// ReadTitle returns "artist - title" from ID3v2 tags when the file has them,
// otherwise the file name without extension.
func ReadTitle(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err == nil {
			defer tag.Close()
			title := strings.TrimSpace(tag.Title())
			artist := strings.TrimSpace(tag.Artist())
			switch {
			case title != "" && artist != "":
				return artist + " - " + title
			case title != "":
				return title
			}
		}
	}

	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

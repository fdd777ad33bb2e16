package grid

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Cell text metrics used by AutoFitColumn.
const (
	fontSize    = 14 // points at 72 DPI, so one point is one pixel
	cellPadding = 16 // left plus right cell padding in pixels
)

var (
	faceOnce sync.Once
	faceMu   sync.Mutex // font.Face is not safe for concurrent use
	face     font.Face
)

func measureFace() font.Face {
	faceOnce.Do(func() {
		fnt, err := opentype.Parse(goregular.TTF)
		if err != nil {
			panic(err) // embedded font
		}
		face, err = opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			panic(err)
		}
	})
	return face
}

// textWidth returns the advance width of s in pixels.
func textWidth(s string) int {
	if s == "" {
		return 0
	}
	f := measureFace()
	faceMu.Lock()
	defer faceMu.Unlock()
	return font.MeasureString(f, s).Ceil()
}

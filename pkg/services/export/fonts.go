package export

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type faceKey struct {
	size float64
	bold bool
}

// Font faces are parsed once per (size, weight) pair and shared across
// exports. Initialization is check-before-insert keyed by the pair, not a
// package-level side effect.
var (
	faceMu    sync.Mutex
	faceCache = map[faceKey]font.Face{}

	parseOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
)

func fontFace(size float64, bold bool) font.Face {
	parseOnce.Do(func() {
		// The embedded Go fonts are well-formed; a parse failure here
		// means a corrupted toolchain and nothing can be rendered.
		var err error
		if regularFont, err = truetype.Parse(goregular.TTF); err != nil {
			panic(fmt.Sprintf("parse embedded regular font: %v", err))
		}
		if boldFont, err = truetype.Parse(gobold.TTF); err != nil {
			panic(fmt.Sprintf("parse embedded bold font: %v", err))
		}
	})

	key := faceKey{size: size, bold: bold}

	faceMu.Lock()
	defer faceMu.Unlock()

	if face, ok := faceCache[key]; ok {
		return face
	}

	f := regularFont
	if bold {
		f = boldFont
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	faceCache[key] = face
	return face
}

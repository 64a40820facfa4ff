package label

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Face selects a font variant and size in pixels.
type Face struct {
	Size   float64
	Bold   bool
	Italic bool
}

// Scaled returns f with its size multiplied by k.
func (f Face) Scaled(k float64) Face {
	f.Size *= k
	return f
}

// Measurer reports the advance width and line height of text in face f.
type Measurer interface {
	Measure(text string, f Face) (width, height float64)
}

// FontBook serves the Go font family. It is safe for concurrent use.
type FontBook struct {
	once  sync.Once
	fonts [4]*truetype.Font
	err   error

	mu    sync.Mutex
	faces map[Face]font.Face
}

// NewFontBook returns an empty book. Fonts are parsed on first use.
func NewFontBook() *FontBook {
	return &FontBook{faces: make(map[Face]font.Face)}
}

func variant(bold, italic bool) int {
	i := 0
	if bold {
		i |= 1
	}
	if italic {
		i |= 2
	}
	return i
}

func (b *FontBook) load() error {
	b.once.Do(func() {
		for i, ttf := range [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF} {
			f, err := truetype.Parse(ttf)
			if err != nil {
				b.err = fmt.Errorf("parse font variant %d: %w", i, err)
				return
			}
			b.fonts[i] = f
		}
	})
	return b.err
}

// Font returns the parsed font for a variant.
func (b *FontBook) Font(bold, italic bool) (*truetype.Font, error) {
	if err := b.load(); err != nil {
		return nil, err
	}
	return b.fonts[variant(bold, italic)], nil
}

// NewFace returns a fresh font.Face for drawing. Faces are not safe for
// concurrent use, so every drawing context should own its own.
func (b *FontBook) NewFace(f Face) (font.Face, error) {
	tt, err := b.Font(f.Bold, f.Italic)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(tt, &truetype.Options{Size: f.Size, DPI: 72, Hinting: font.HintingNone}), nil
}

// Measure implements Measurer. A font that fails to parse measures as zero.
func (b *FontBook) Measure(text string, f Face) (width, height float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	face, ok := b.faces[f]
	if !ok {
		var err error
		if face, err = b.NewFace(f); err != nil {
			return 0, 0
		}
		b.faces[f] = face
	}
	adv := font.MeasureString(face, text)
	return float64(adv) / 64, float64(face.Metrics().Height) / 64
}

package document

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	"os/exec"
	"time"

	"github.com/matzehuels/smapshot/pkg/errors"
)

// A4 page geometry in points.
const (
	PageWidth    = 595.0
	PageHeight   = 842.0
	PageMargin   = 10.0
	HeaderHeight = 50.0
)

// Page describes the header printed above the map.
type Page struct {
	Source string // input format, e.g. "KML"
	Title  string
	Date   time.Time
}

func (p Page) heading() string {
	src := p.Source
	if src == "" {
		src = "boundary"
	}
	return fmt.Sprintf("Map from %s: %s", src, p.Title)
}

// ImageRect returns where an image of w×h lands on the page: scaled to fit
// the area below the header and centered in it.
func ImageRect(w, h int) (x, y, dw, dh float64) {
	areaW := PageWidth - 2*PageMargin
	areaH := PageHeight - 2*PageMargin - HeaderHeight
	if w <= 0 || h <= 0 {
		return PageMargin, PageMargin + HeaderHeight, 0, 0
	}
	k := min(areaW/float64(w), areaH/float64(h))
	dw, dh = float64(w)*k, float64(h)*k
	x = PageMargin + (areaW-dw)/2
	y = PageMargin + HeaderHeight + (areaH-dh)/2
	return x, y, dw, dh
}

// ComposeSVG lays out the page as SVG with the PNG embedded inline.
func ComposeSVG(img image.Image, page Page) ([]byte, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	x, y, w, h := ImageRect(b.Dx(), b.Dy())

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%gpt" height="%gpt" viewBox="0 0 %g %g">`+"\n",
		PageWidth, PageHeight, PageWidth, PageHeight)
	fmt.Fprintf(&buf, `<rect width="%g" height="%g" fill="#ffffff"/>`+"\n", PageWidth, PageHeight)
	fmt.Fprintf(&buf, `<text x="%g" y="%g" font-family="sans-serif" font-size="14" font-weight="bold">%s</text>`+"\n",
		PageMargin, PageMargin+18, html.EscapeString(page.heading()))
	if !page.Date.IsZero() {
		fmt.Fprintf(&buf, `<text x="%g" y="%g" font-family="sans-serif" font-size="8">Generated: %s</text>`+"\n",
			PageMargin, PageMargin+32, page.Date.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&buf, `<image x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid meet" xlink:href="data:image/png;base64,%s"/>`+"\n",
		x, y, w, h, base64.StdEncoding.EncodeToString(data))
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// ComposePDF renders the page to PDF.
func ComposePDF(ctx context.Context, img image.Image, page Page) ([]byte, error) {
	svg, err := ComposeSVG(img, page)
	if err != nil {
		return nil, err
	}
	return rsvgConvert(ctx, svg, "pdf")
}

// Available reports whether PDF conversion is possible on this machine.
func Available() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

func rsvgConvert(ctx context.Context, svg []byte, format string) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	cmd := exec.CommandContext(ctx, "rsvg-convert", "-f", format)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}

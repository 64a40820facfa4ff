package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/smapshot/pkg/boundary"
	"github.com/matzehuels/smapshot/pkg/document"
	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/render"
)

func pageFor(opts Options, b *boundary.Boundary, now time.Time) document.Page {
	src := "GeoJSON"
	if opts.Shape == nil {
		src = boundary.Source(opts.Boundary)
	}
	return document.Page{Source: src, Title: b.Name, Date: now}
}

// encode produces one artifact from a rendered map.
func encode(ctx context.Context, format string, out *render.Output, page document.Page) ([]byte, error) {
	switch format {
	case FormatPNG:
		return document.EncodePNG(out.Image)
	case FormatPDF:
		return document.ComposePDF(ctx, out.Image, page)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
}

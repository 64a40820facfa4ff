// Package render turns a boundary and its map features into a finished
// raster.
//
// # Overview
//
// An [Engine] runs the stages in a fixed order:
//
//  1. validate the input
//  2. solve the page orientation ([orient])
//  3. build the projection ([projection])
//  4. project every node onto the canvas
//  5. filter the road network ([roadnet])
//  6. draw water bodies, waterways, buildings and roads
//  7. place and draw labels ([label])
//  8. mute everything outside the boundary ([mask])
//  9. stroke the offset boundary outline
//
// Geometry is transformed once by the projection's affine transform; the
// drawing context itself is never rotated or scaled, except locally to
// draw rotated label text.
//
//	eng := render.NewEngine(style.Default(), label.NewFontBook(), render.Options{Width: 2500, Height: 3250})
//	out, err := eng.Render(ctx, render.Input{Boundary: poly, Region: region, Features: set})
//
// An Engine holds no per-render state and may be shared between goroutines.
package render

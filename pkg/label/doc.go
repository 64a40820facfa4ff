// Package label lays out map text without collisions.
//
// A Placer owns the set of labels placed so far for one render. Roads are
// labelled along straight stretches of their polyline, water bodies at an
// interior point far from their shore, and named places at their node.
// Every placement is rejected when its axis-aligned box intersects a
// previously placed box, or when a label with the same text already sits
// closer than Options.MinLabelDistance. The result therefore never holds two
// intersecting boxes, whatever the input.
//
// All coordinates are canvas pixels. Text size comes from a Measurer;
// FontBook measures with the Go font family.
package label

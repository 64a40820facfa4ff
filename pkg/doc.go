// Package pkg holds the smapshot libraries.
//
// # Overview
//
// smapshot renders a print-ready street map of a closed boundary. The map
// is rotated to fit the page, areas outside the boundary are dimmed, and
// roads, water and places are labelled.
//
// # Architecture
//
// The data flow of one job:
//
//	boundary file (GeoJSON/KML)
//	         ↓
//	    [boundary] package (polygon)
//	         ↓
//	    [osm] package (download through [cache], parse to [feature] sets)
//	         ↓
//	    [render] package ([orient], [projection], [roadnet], [label], [mask])
//	         ↓
//	    [document] package (PNG, A4 PDF)
//
// [pipeline] runs the whole flow for the CLI and the HTTP server.
package pkg

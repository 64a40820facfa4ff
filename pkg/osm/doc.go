// Package osm downloads OpenStreetMap data for a region and turns it into
// a feature set.
//
// [Client.Fetch] requests the region from an Overpass endpoint and caches
// the response body. [Parse] streams OSM XML and classifies ways and nodes
// into the feature variants the renderer draws.
package osm

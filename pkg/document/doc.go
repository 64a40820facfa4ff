// Package document turns a rendered map into output files.
//
// PNG output is encoded directly. PDF output places the map on an A4 page
// with a short header and converts that page with rsvg-convert, which must
// be installed (brew install librsvg, apt install librsvg2-bin).
package document

package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxCanvasSide bounds either canvas dimension. A 2500x3250 page is the default.
const MaxCanvasSide = 20000

// ValidateCanvas checks output dimensions.
func ValidateCanvas(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidCanvas, "canvas must be positive, got %dx%d", width, height)
	}
	if width > MaxCanvasSide || height > MaxCanvasSide {
		return New(ErrCodeInvalidCanvas, "canvas too large (max %d per side), got %dx%d", MaxCanvasSide, width, height)
	}
	return nil
}

// ValidateMargin checks that margin is a fraction in [0, 0.5).
func ValidateMargin(margin float64) error {
	if math.IsNaN(margin) || margin < 0 || margin >= 0.5 {
		return New(ErrCodeInvalidCanvas, "margin must be in [0, 0.5), got %v", margin)
	}
	return nil
}

// boundaryExts are the boundary formats the readers understand.
var boundaryExts = map[string]bool{
	".geojson": true,
	".json":    true,
	".kml":     true,
}

// ValidateBoundaryFilename checks a boundary filename received over the API or CLI.
// It must be a plain basename with a supported extension.
func ValidateBoundaryFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "boundary filename cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "boundary filename contains control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "boundary filename cannot contain path components")
	}
	if ext := strings.ToLower(filepath.Ext(name)); !boundaryExts[ext] {
		return New(ErrCodeInvalidFormat, "unsupported boundary format %q (want .geojson, .json or .kml)", ext)
	}
	return nil
}

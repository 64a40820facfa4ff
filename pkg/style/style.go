// Package style holds the cartographic style of a render: colors, stroke
// widths and label fonts.
//
// A Style is a plain value. Load decodes a TOML file on top of Default, so a
// file only needs the keys it changes:
//
//	background = "#f1efe9"
//
//	[roads.primary]
//	color = "#ffd700"
//	width = 18
//
// Components receive a Style by value and treat it as read-only.
package style

import (
	"fmt"
	"image/color"
	"maps"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultCategory is the road entry used for categories without their own.
const DefaultCategory = "default"

// Style is the full render style.
type Style struct {
	Background     string  `toml:"background"`
	Margin         float64 `toml:"margin"`
	MaskBrightness float64 `toml:"mask_brightness"`

	Outline  LineStyle            `toml:"outline"`
	Water    AreaStyle            `toml:"water"`
	Building AreaStyle            `toml:"building"`
	Waterway LineStyle            `toml:"waterway"`
	Roads    map[string]RoadStyle `toml:"roads"`

	RoadLabel  LabelStyle `toml:"road_label"`
	WaterLabel LabelStyle `toml:"water_label"`
	PlaceLabel LabelStyle `toml:"place_label"`
}

// RoadStyle strokes one road category.
type RoadStyle struct {
	Color   string  `toml:"color"`
	Outline string  `toml:"outline"`
	Width   float64 `toml:"width"`
}

// LineStyle strokes a line.
type LineStyle struct {
	Color string  `toml:"color"`
	Width float64 `toml:"width"`
}

// AreaStyle fills a closed shape and optionally strokes it.
type AreaStyle struct {
	Fill        string  `toml:"fill"`
	Stroke      string  `toml:"stroke"`
	StrokeWidth float64 `toml:"stroke_width"`
}

// LabelStyle configures one class of labels.
type LabelStyle struct {
	FontSize     float64 `toml:"font_size"`
	Color        string  `toml:"color"`
	Italic       bool    `toml:"italic"`
	Background   string  `toml:"background"`
	Opacity      uint8   `toml:"opacity"`
	Halo         string  `toml:"halo"`
	HaloWidth    float64 `toml:"halo_width"`
	Padding      float64 `toml:"padding"`
	CornerRadius float64 `toml:"corner_radius"`
}

// Road returns the style for category, falling back to the default entry.
func (s Style) Road(category string) RoadStyle {
	if r, ok := s.Roads[category]; ok {
		return r
	}
	return s.Roads[DefaultCategory]
}

// WithMargin returns a copy of s with a different page margin.
func (s Style) WithMargin(m float64) Style {
	c := s.Clone()
	c.Margin = m
	return c
}

// Clone returns a deep copy of s.
func (s Style) Clone() Style {
	c := s
	c.Roads = maps.Clone(s.Roads)
	return c
}

// Validate checks every color and numeric range.
func (s Style) Validate() error {
	check := func(field, hex string) error {
		if hex == "" {
			return nil
		}
		if _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		return nil
	}
	colors := map[string]string{
		"background":        s.Background,
		"outline.color":     s.Outline.Color,
		"water.fill":        s.Water.Fill,
		"water.stroke":      s.Water.Stroke,
		"building.fill":     s.Building.Fill,
		"building.stroke":   s.Building.Stroke,
		"waterway.color":    s.Waterway.Color,
		"road_label.color":  s.RoadLabel.Color,
		"road_label.bg":     s.RoadLabel.Background,
		"road_label.halo":   s.RoadLabel.Halo,
		"water_label.color": s.WaterLabel.Color,
		"water_label.bg":    s.WaterLabel.Background,
		"water_label.halo":  s.WaterLabel.Halo,
		"place_label.color": s.PlaceLabel.Color,
		"place_label.bg":    s.PlaceLabel.Background,
		"place_label.halo":  s.PlaceLabel.Halo,
	}
	for field, hex := range colors {
		if err := check(field, hex); err != nil {
			return err
		}
	}
	for cat, r := range s.Roads {
		if err := check("roads."+cat+".color", r.Color); err != nil {
			return err
		}
		if err := check("roads."+cat+".outline", r.Outline); err != nil {
			return err
		}
		if r.Width < 0 {
			return fmt.Errorf("roads.%s.width: negative width %v", cat, r.Width)
		}
	}
	if _, ok := s.Roads[DefaultCategory]; !ok {
		return fmt.Errorf("roads: missing %q entry", DefaultCategory)
	}
	if s.Margin < 0 || s.Margin >= 0.5 || math.IsNaN(s.Margin) {
		return fmt.Errorf("margin: %v outside [0, 0.5)", s.Margin)
	}
	if s.MaskBrightness < 0 || s.MaskBrightness > 1 {
		return fmt.Errorf("mask_brightness: %v outside [0, 1]", s.MaskBrightness)
	}
	return nil
}

// ParseColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Color parses hex and applies alpha. Invalid or empty input yields fallback.
func Color(hex string, alpha uint8, fallback color.NRGBA) color.NRGBA {
	if hex == "" {
		return fallback
	}
	c, err := ParseColor(hex)
	if err != nil {
		return fallback
	}
	c.A = alpha
	return c
}

// Opaque is Color with full alpha.
func Opaque(hex string, fallback color.NRGBA) color.NRGBA {
	return Color(hex, 255, fallback)
}

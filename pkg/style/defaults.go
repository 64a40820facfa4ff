package style

// Default returns the built-in style. Every call returns a fresh value.
func Default() Style {
	return Style{
		Background:     "#f1efe9",
		Margin:         0.1,
		MaskBrightness: 0.8,

		Outline:  LineStyle{Color: "#ff0000", Width: 10},
		Water:    AreaStyle{Fill: "#b4dcff"},
		Building: AreaStyle{Fill: "#c0b9b0", Stroke: "#999285", StrokeWidth: 1},
		Waterway: LineStyle{Color: "#b4dcff", Width: 1.5},

		Roads: map[string]RoadStyle{
			"motorway":      {Color: "#ff4500", Outline: "#b22222", Width: 16},
			"trunk":         {Color: "#ffa500", Outline: "#b8860b", Width: 16},
			"primary":       {Color: "#ffff00", Outline: "#cccc00", Width: 16},
			"secondary":     {Color: "#ffffe0", Outline: "#bdb76b", Width: 14},
			"tertiary":      {Color: "#ffffff", Outline: "#bcbcbc", Width: 12},
			"residential":   {Color: "#ffffff", Outline: "#bcbcbc", Width: 10},
			"unclassified":  {Color: "#ffffff", Outline: "#bcbcbc", Width: 8},
			"service":       {Color: "#ffffff", Outline: "#bcbcbc", Width: 8},
			DefaultCategory: {Color: "#ffffff", Outline: "#bcbcbc", Width: 8},
		},

		RoadLabel: LabelStyle{
			FontSize:     28,
			Color:        "#000000",
			Background:   "#ffffff",
			Opacity:      200,
			Padding:      8,
			CornerRadius: 4,
		},
		WaterLabel: LabelStyle{
			FontSize:   22,
			Color:      "#3b78a3",
			Italic:     true,
			Background: "#ffffff",
			Opacity:    120,
			Padding:    8,
		},
		PlaceLabel: LabelStyle{
			FontSize:   30,
			Color:      "#333333",
			Italic:     true,
			Background: "#ffffff",
			Opacity:    150,
			Halo:       "#ffffff",
			HaloWidth:  2,
			Padding:    8,
		},
	}
}

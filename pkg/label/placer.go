package label

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/smapshot/pkg/feature"
	"github.com/matzehuels/smapshot/pkg/geom"
)

// Placement defaults.
const (
	DefaultMinLabelDistance = 800.0
	DefaultMinSegmentLength = 80.0
	DefaultWindow           = 2
	DefaultInsideFraction   = 0.75
	DefaultLabelSpacing     = 1200.0
	DefaultMaxNudge         = 12
	DefaultNudgeStep        = 24.0
	DefaultPadding          = 8.0
)

// Water body thresholds on bounding box area in square pixels.
const (
	MinWaterArea  = 500.0
	PoleWaterArea = 5000.0
	poleGrid      = 5
)

// Kind is the class of a placed label.
type Kind int

const (
	KindRoad Kind = iota
	KindWater
	KindPlace
)

func (k Kind) String() string {
	switch k {
	case KindRoad:
		return "road"
	case KindWater:
		return "water"
	case KindPlace:
		return "place"
	}
	return "unknown"
}

// Options tune placement. Zero fields take the defaults above.
type Options struct {
	RoadFace  Face
	WaterFace Face
	PlaceFace Face

	MinLabelDistance float64
	MinSegmentLength float64
	Window           int
	InsideFraction   float64
	LabelSpacing     float64
	MaxNudge         int
	NudgeStep        float64
	// Padding is added around measured text on every side.
	Padding float64
}

func (o Options) withDefaults() Options {
	if o.RoadFace.Size <= 0 {
		o.RoadFace.Size = 28
	}
	if o.WaterFace.Size <= 0 {
		o.WaterFace.Size = 22
	}
	if o.PlaceFace.Size <= 0 {
		o.PlaceFace.Size = 30
	}
	if o.MinLabelDistance <= 0 {
		o.MinLabelDistance = DefaultMinLabelDistance
	}
	if o.MinSegmentLength <= 0 {
		o.MinSegmentLength = DefaultMinSegmentLength
	}
	if o.Window < 2 {
		o.Window = DefaultWindow
	}
	if o.InsideFraction <= 0 {
		o.InsideFraction = DefaultInsideFraction
	}
	if o.LabelSpacing <= 0 {
		o.LabelSpacing = DefaultLabelSpacing
	}
	if o.MaxNudge <= 0 {
		o.MaxNudge = DefaultMaxNudge
	}
	if o.NudgeStep <= 0 {
		o.NudgeStep = DefaultNudgeStep
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	return o
}

// Line is a linear feature in canvas space.
type Line struct {
	Points     []geom.Point
	Category   string
	Text       string
	Roundabout bool
}

// Area is a closed feature in canvas space.
type Area struct {
	Ring []geom.Point
	Name string
}

// Spot is a point feature in canvas space.
type Spot struct {
	Pos      geom.Point
	Name     string
	Category string
}

// Placed is a label that passed every check.
type Placed struct {
	Kind Kind
	Text string
	// Feature is the index of the source feature in the slice passed to the
	// Place call that produced the label.
	Feature int
	Anchor  geom.Point
	// Angle is the text rotation in degrees within [-90, 90].
	Angle float64
	Face  Face
	// Width and Height are the padded text box before rotation.
	Width, Height float64
	Box           geom.Rect
}

// Placer places labels for one render.
type Placer struct {
	ring   geom.Ring
	m      Measurer
	opts   Options
	placed []Placed
	byText map[string][]geom.Point
}

// NewPlacer returns a placer that keeps labels inside ring.
func NewPlacer(ring geom.Ring, m Measurer, opts Options) *Placer {
	return &Placer{
		ring:   ring,
		m:      m,
		opts:   opts.withDefaults(),
		byText: make(map[string][]geom.Point),
	}
}

// Labels returns the labels placed so far in placement order.
func (p *Placer) Labels() []Placed {
	return slices.Clone(p.placed)
}

// Options returns the effective options.
func (p *Placer) Options() Options { return p.opts }

// Excluded road categories are never labelled.
var excludedRoads = map[string]bool{
	"service":     true,
	"residential": true,
	"track":       true,
	"footway":     true,
	"path":        true,
	"cycleway":    true,
	"bridleway":   true,
	"steps":       true,
	"pedestrian":  true,
}

// Excluded reports whether a road of category is never labelled.
func Excluded(category string) bool {
	return excludedRoads[category]
}

var roadPriority = []string{
	"motorway", "trunk", "primary", "secondary", "tertiary", "unclassified", "residential", "service",
}

func roadRank(category string) int {
	category = strings.TrimSuffix(category, "_link")
	if i := slices.Index(roadPriority, category); i >= 0 {
		return i
	}
	return len(roadPriority)
}

// PlaceRoads labels roads in priority order, then by length. It returns the
// number of labels placed.
func (p *Placer) PlaceRoads(roads []Line) int {
	order := make([]int, len(roads))
	lengths := make([]float64, len(roads))
	for i := range roads {
		order[i] = i
		lengths[i] = PolylineLength(roads[i].Points)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(roadRank(roads[a].Category), roadRank(roads[b].Category)); c != 0 {
			return c
		}
		return cmp.Compare(lengths[b], lengths[a])
	})

	n := 0
	for _, i := range order {
		n += p.placeRoad(i, roads[i], lengths[i])
	}
	return n
}

func (p *Placer) placeRoad(idx int, r Line, length float64) int {
	if r.Text == "" || r.Roundabout || Excluded(r.Category) || len(r.Points) < 2 {
		return 0
	}
	o := p.opts
	major := feature.IsAnchorCategory(r.Category)
	face := o.RoadFace
	if major {
		face.Bold = true
		face = face.Scaled(1.2)
	}
	w, h := p.measure(r.Text, face)

	maxLabels := max(1, int(length/o.LabelSpacing))
	var used []geom.Point
	placed := 0
	for _, c := range Candidates(r.Points, p.ring, o.Window, o.MinSegmentLength, o.InsideFraction) {
		if placed >= maxLabels {
			break
		}
		if near(used, c.Anchor, o.LabelSpacing) {
			continue
		}
		lbl := Placed{
			Kind:    KindRoad,
			Text:    r.Text,
			Feature: idx,
			Angle:   TextAngle(c.Angle),
			Face:    face,
			Width:   w,
			Height:  h,
		}
		ok := false
		if major {
			ok = p.tryRoad(&lbl, c.Anchor, c.Angle, false)
		} else {
			normal := geom.Point{X: -math.Sin(c.Angle), Y: math.Cos(c.Angle)}
			for _, shift := range nudges(o.MaxNudge, o.NudgeStep) {
				if ok = p.tryRoad(&lbl, c.Anchor.Add(normal.Mul(shift)), c.Angle, true); ok {
					break
				}
			}
		}
		if ok {
			p.commit(lbl)
			used = append(used, c.Anchor)
			placed++
		}
	}
	return placed
}

// nudges returns the offsets along a road's normal tried for a minor road
// label: 0, then +k*step and -k*step for k = 1..maxNudge.
func nudges(maxNudge int, step float64) []float64 {
	out := make([]float64, 0, 2*maxNudge+1)
	out = append(out, 0)
	for k := 1; k <= maxNudge; k++ {
		d := float64(k) * step
		out = append(out, d, -d)
	}
	return out
}

// tryRoad fills lbl's anchor and box when the position passes every check.
func (p *Placer) tryRoad(lbl *Placed, anchor geom.Point, rad float64, corners bool) bool {
	if !p.ring.Contains(anchor) {
		return false
	}
	cs := textCorners(anchor, lbl.Width, lbl.Height, rad)
	if corners {
		for _, c := range cs {
			if !p.ring.Contains(c) {
				return false
			}
		}
	}
	box := cornersBounds(cs)
	if !p.free(lbl.Text, anchor, box) {
		return false
	}
	lbl.Anchor, lbl.Box = anchor, box
	return true
}

// PlaceWaterBodies labels named water bodies, largest first.
func (p *Placer) PlaceWaterBodies(areas []Area) int {
	type water struct {
		idx    int
		anchor geom.Point
		area   float64
	}
	var ws []water
	for i, a := range areas {
		if a.Name == "" || len(a.Ring) == 0 {
			continue
		}
		b := geom.Bounds(a.Ring)
		area := b.Area()
		if area <= MinWaterArea {
			continue
		}
		anchor := b.Center()
		if area > PoleWaterArea {
			anchor = Pole(geom.NewRing(a.Ring))
		}
		ws = append(ws, water{i, anchor, area})
	}
	slices.SortStableFunc(ws, func(a, b water) int { return cmp.Compare(b.area, a.area) })

	n := 0
	for _, w := range ws {
		face := p.opts.WaterFace
		face.Italic = true
		face = face.Scaled(waterScale(w.area))
		if p.placeUpright(KindWater, w.idx, areas[w.idx].Name, w.anchor, face) {
			n++
		}
	}
	return n
}

func waterScale(area float64) float64 {
	switch {
	case area > 50000:
		return 1.4
	case area > 20000:
		return 1.2
	case area > 5000:
		return 1.1
	case area < 1000:
		return 0.85
	}
	return 1
}

// Pole approximates the interior point farthest from the ring boundary by
// sampling the inner points of a 5x5 grid over its bounds. It falls back to
// the bounds center when no sample is inside.
func Pole(ring geom.Ring) geom.Point {
	b := ring.Bounds()
	best := b.Center()
	bestDist := -1.0
	for i := 1; i < poleGrid; i++ {
		for j := 1; j < poleGrid; j++ {
			pt := geom.Point{
				X: b.MinX + b.Width()*float64(i)/poleGrid,
				Y: b.MinY + b.Height()*float64(j)/poleGrid,
			}
			if !ring.Contains(pt) {
				continue
			}
			if d := ring.BoundaryDist(pt); d > bestDist {
				best, bestDist = pt, d
			}
		}
	}
	return best
}

var placeRanks = []string{"city", "town", "village", "hamlet", "suburb", "neighbourhood", "locality"}

func placeRank(category string) int {
	if i := slices.Index(placeRanks, category); i >= 0 {
		return i
	}
	return len(placeRanks)
}

func placeFace(base Face, category string) Face {
	switch category {
	case "city":
		base.Bold = true
		return base.Scaled(1.5)
	case "town":
		base.Bold = true
		return base.Scaled(1.3)
	case "village":
		base.Bold = true
		return base.Scaled(1.1)
	case "hamlet", "suburb":
		return base.Scaled(0.9)
	}
	return base.Scaled(0.8)
}

// PlacePlaces labels named places by importance. Places sharing a name
// are reduced to the most important one.
func (p *Placer) PlacePlaces(spots []Spot) int {
	best := make(map[string]int)
	var names []string
	for i, s := range spots {
		if s.Name == "" {
			continue
		}
		j, ok := best[s.Name]
		if !ok {
			names = append(names, s.Name)
			best[s.Name] = i
			continue
		}
		if placeRank(s.Category) < placeRank(spots[j].Category) {
			best[s.Name] = i
		}
	}
	order := make([]int, 0, len(names))
	for _, name := range names {
		order = append(order, best[name])
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(placeRank(spots[a].Category), placeRank(spots[b].Category))
	})

	n := 0
	for _, i := range order {
		s := spots[i]
		if p.placeUpright(KindPlace, i, s.Name, s.Pos, placeFace(p.opts.PlaceFace, s.Category)) {
			n++
		}
	}
	return n
}

func (p *Placer) placeUpright(kind Kind, idx int, text string, anchor geom.Point, face Face) bool {
	if !p.ring.Contains(anchor) {
		return false
	}
	w, h := p.measure(text, face)
	box := geom.RectAround(anchor, w, h)
	if !p.free(text, anchor, box) {
		return false
	}
	p.commit(Placed{
		Kind:    kind,
		Text:    text,
		Feature: idx,
		Anchor:  anchor,
		Face:    face,
		Width:   w,
		Height:  h,
		Box:     box,
	})
	return true
}

func (p *Placer) measure(text string, f Face) (w, h float64) {
	w, h = p.m.Measure(text, f)
	return w + 2*p.opts.Padding, h + 2*p.opts.Padding
}

// free reports whether box overlaps no placed label and anchor keeps its
// distance from labels with the same text.
func (p *Placer) free(text string, anchor geom.Point, box geom.Rect) bool {
	if box.Empty() {
		return false
	}
	for _, l := range p.placed {
		if l.Box.Intersects(box) {
			return false
		}
	}
	return !near(p.byText[text], anchor, p.opts.MinLabelDistance)
}

func (p *Placer) commit(l Placed) {
	p.placed = append(p.placed, l)
	p.byText[l.Text] = append(p.byText[l.Text], l.Anchor)
}

func near(pts []geom.Point, q geom.Point, dist float64) bool {
	for _, pt := range pts {
		if pt.Dist(q) < dist {
			return true
		}
	}
	return false
}

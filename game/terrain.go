package game

import (
	"math"
	"math/rand"
	"sort"
)

// Terrain generation and deformation constants
const (
	// TerrainStep is the horizontal spacing between samples
	TerrainStep = 2.0

	// CraterDepth is how far a sample at the blast center is pushed toward the floor
	CraterDepth = 30.0

	terrainBaseRatio = 0.65 // Base surface y as a fraction of scene height
	terrainMinRatio  = 0.2  // Highest allowed surface y as a fraction of scene height
	terrainAmplitude = 0.12 // Low-frequency variation as a fraction of scene height
	terrainJitter    = 2.0
)

// Terrain is a single-valued heightmap. Each sample stores the surface y at x;
// larger y is lower ground and y == Height is the scene floor.
type Terrain struct {
	Points []Point
	Width  float64
	Height float64
}

type terrainWave struct {
	freq, phase, amp float64
}

// GenerateTerrain builds a heightmap covering [0, width]: a base height plus
// smooth low-frequency variation plus per-sample jitter.
func GenerateTerrain(width, height float64, rng *rand.Rand) *Terrain {
	n := int(math.Ceil(width/TerrainStep)) + 1
	t := &Terrain{
		Points: make([]Point, n),
		Width:  width,
		Height: height,
	}

	base := height * terrainBaseRatio
	amp := height * terrainAmplitude
	cycle := 2 * math.Pi / width
	waves := []terrainWave{
		{freq: (1 + rng.Float64()) * cycle, phase: rng.Float64() * 2 * math.Pi, amp: amp},
		{freq: (2 + 2*rng.Float64()) * cycle, phase: rng.Float64() * 2 * math.Pi, amp: amp * 0.5},
		{freq: (5 + 3*rng.Float64()) * cycle, phase: rng.Float64() * 2 * math.Pi, amp: amp * 0.2},
	}

	for i := range t.Points {
		x := math.Min(float64(i)*TerrainStep, width)
		y := base
		for _, w := range waves {
			y += w.amp * math.Sin(w.freq*x+w.phase)
		}
		y += (rng.Float64()*2 - 1) * terrainJitter
		t.Points[i] = Point{X: x, Y: clamp(y, height*terrainMinRatio, height)}
	}
	return t
}

// NewFlatTerrain builds a level heightmap with its surface at surfaceY
func NewFlatTerrain(width, height, surfaceY float64) *Terrain {
	n := int(math.Ceil(width/TerrainStep)) + 1
	t := &Terrain{
		Points: make([]Point, n),
		Width:  width,
		Height: height,
	}
	y := clamp(surfaceY, 0, height)
	for i := range t.Points {
		t.Points[i] = Point{X: math.Min(float64(i)*TerrainStep, width), Y: y}
	}
	return t
}

// HeightAt returns the surface y at x, interpolating between the two nearest
// samples. Outside the sampled domain it returns the scene floor.
func (t *Terrain) HeightAt(x float64) float64 {
	n := len(t.Points)
	if n == 0 || math.IsNaN(x) || x < t.Points[0].X || x > t.Points[n-1].X {
		return t.Height
	}
	i := sort.Search(n, func(i int) bool { return t.Points[i].X >= x })
	if t.Points[i].X == x {
		return t.Points[i].Y
	}
	a, b := t.Points[i-1], t.Points[i]
	f := (x - a.X) / (b.X - a.X)
	return a.Y + (b.Y-a.Y)*f
}

// SlopeAt returns the normalized local gradient dy/|d| in [-1, 1].
// Positive means the surface descends toward +x.
func (t *Terrain) SlopeAt(x float64) float64 {
	dy := t.HeightAt(x+TerrainStep) - t.HeightAt(x-TerrainStep)
	dx := 2 * TerrainStep
	return dy / math.Hypot(dx, dy)
}

// IsValley reports whether x sits in a dip at least margin deep on both sides
// within probe distance.
func (t *Terrain) IsValley(x, probe, margin float64) bool {
	y := t.HeightAt(x)
	return y-t.HeightAt(x-probe) > margin && y-t.HeightAt(x+probe) > margin
}

// Deform carves a crater: every sample within radius of (cx, cy) is pushed
// toward the floor by (radius-distance)/radius * CraterDepth, never past it.
func (t *Terrain) Deform(cx, cy, radius float64) {
	if radius <= 0 || math.IsNaN(cx) || math.IsNaN(cy) {
		return
	}
	n := len(t.Points)
	lo := sort.Search(n, func(i int) bool { return t.Points[i].X >= cx-radius })
	for i := lo; i < n && t.Points[i].X <= cx+radius; i++ {
		p := &t.Points[i]
		d := Distance(cx, cy, p.X, p.Y)
		if d >= radius {
			continue
		}
		p.Y = math.Min(p.Y+(radius-d)/radius*CraterDepth, t.Height)
	}
}

// Rescale stretches the heightmap to new scene dimensions, keeping its shape
func (t *Terrain) Rescale(width, height float64) {
	if t.Width <= 0 || t.Height <= 0 {
		return
	}
	sx := width / t.Width
	sy := height / t.Height
	for i := range t.Points {
		t.Points[i].X *= sx
		t.Points[i].Y = clamp(t.Points[i].Y*sy, 0, height)
	}
	t.Width = width
	t.Height = height
}

// Samples returns a copy of the heightmap for readers outside the engine
func (t *Terrain) Samples() []Point {
	out := make([]Point, len(t.Points))
	copy(out, t.Points)
	return out
}

func (t *Terrain) clone() *Terrain {
	return &Terrain{Points: t.Samples(), Width: t.Width, Height: t.Height}
}

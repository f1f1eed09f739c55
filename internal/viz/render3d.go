package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/sim"
)

// Camera projects world positions onto the canvas. It orbits Center.
type Camera struct {
	Center     mgl32.Vec3
	RotX, RotY float32
	Zoom       float32
	Distance   float32
	Near       float32
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1.0, Distance: 50, Near: 0.1}
}

func (c *Camera) RotateX(a float32) { c.RotX += a }
func (c *Camera) RotateY(a float32) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = min(100, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = max(0.01, c.Zoom/1.2) }

// Fit centres the camera on the chains' roots and zooms so the longest
// chain and the spread of roots fit on screen.
func (c *Camera) Fit(f sim.Frame) {
	if len(f.Chains) == 0 {
		return
	}
	var center mgl32.Vec3
	for _, ch := range f.Chains {
		center = center.Add(ch.Positions[0])
	}
	center = center.Mul(1 / float32(len(f.Chains)))

	extent := float32(0)
	for _, ch := range f.Chains {
		length := float32(0)
		for _, r := range ch.RestLengths {
			length += r
		}
		extent = max(extent, length, ch.Positions[0].Sub(center).Len()+length/2)
	}
	if extent == 0 {
		extent = 1
	}
	c.Center = center
	c.Zoom = 1.2 / extent
}

func (c *Camera) rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(c.RotX).Mul4(mgl32.HomogRotate3DY(c.RotY))
}

// Project converts world coordinates to screen sub-pixels.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p mgl32.Vec3, sw, sh int) (int, int, float32, bool) {
	rot := mgl32.TransformCoordinate(p.Sub(c.Center), c.rotation()).Mul(c.Zoom)
	if !finite(rot) || rot.Z() >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z())
	pScale := float32(min(sw, sh)) / 3.0
	sx := int(math.Round(float64(rot.X()*scale*pScale))) + sw/2
	sy := int(math.Round(float64(-rot.Y()*scale*pScale))) + sh/2
	return sx, sy, rot.Z(), sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

func finite(v mgl32.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return false
		}
	}
	return true
}

type Edge struct {
	Start, End mgl32.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl32.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl32.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }
func (w *Wireframe) AddMarker(p mgl32.Vec3, r float32) {
	w.AddEdge(p.Sub(mgl32.Vec3{r, 0, 0}), p.Add(mgl32.Vec3{r, 0, 0}))
	w.AddEdge(p.Sub(mgl32.Vec3{0, r, 0}), p.Add(mgl32.Vec3{0, r, 0}))
}

// ChainWireframe links consecutive positions of every chain and marks each
// root with a small cross.
func ChainWireframe(f sim.Frame, marker float32) *Wireframe {
	w := NewWireframe()
	for _, ch := range f.Chains {
		if len(ch.Positions) == 0 {
			continue
		}
		w.AddMarker(ch.Positions[0], marker)
		for i := 1; i < len(ch.Positions); i++ {
			w.AddEdge(ch.Positions[i-1], ch.Positions[i])
		}
	}
	return w
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float32
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.Width*2, c.Height*4
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.End, sw, sh)
		// Edges reaching far off screen are dropped rather than walked.
		if (v1 || v2) && near(x1, y1, sw, sh) && near(x2, y2, sw, sh) {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

func near(x, y, sw, sh int) bool {
	return x > -4*sw && x < 5*sw && y > -4*sh && y < 5*sh
}

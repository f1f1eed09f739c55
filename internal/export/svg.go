package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/chainsim/internal/dynamo"
)

type point struct{ X, Y float64 }

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b *bounds) add(p point) {
	b.minX = math.Min(b.minX, p.X)
	b.maxX = math.Max(b.maxX, p.X)
	b.minY = math.Min(b.minY, p.Y)
	b.maxY = math.Max(b.maxY, p.Y)
}

// pad widens the bounds by 10% and keeps the aspect ratio square.
func (b *bounds) pad() {
	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 {
		span = 1
	}
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	half := span * 0.6
	b.minX, b.maxX = cx-half, cx+half
	b.minY, b.maxY = cy-half, cy+half
}

// RunToSVG draws the leaf trajectories of a recorded run in the XY plane,
// with the final pose of every chain on top. states are flat x, y, z
// triples; each chain occupies nodes consecutive triples.
func RunToSVG(states []dynamo.State, nodes, width, height int) (string, error) {
	if len(states) < 2 {
		return "", fmt.Errorf("svg: need at least 2 states, got %d", len(states))
	}
	if nodes < 1 || len(states[0])%(3*nodes) != 0 {
		return "", fmt.Errorf("svg: state of length %d does not hold chains of %d nodes", len(states[0]), nodes)
	}
	chains := len(states[0]) / (3 * nodes)

	at := func(s dynamo.State, chain, node int) point {
		i := 3 * (chain*nodes + node)
		return point{s[i], s[i+1]}
	}

	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, s := range states {
		for c := 0; c < chains; c++ {
			b.add(at(s, c, 0))
			b.add(at(s, c, nodes-1))
		}
	}
	last := states[len(states)-1]
	for c := 0; c < chains; c++ {
		for n := 0; n < nodes; n++ {
			b.add(at(last, c, n))
		}
	}
	b.pad()

	screen := func(p point) (float64, float64) {
		x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
		y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for c := 0; c < chains; c++ {
		sb.WriteString(`<path fill="none" stroke="#00ccff" stroke-opacity="0.5" stroke-width="1" d="M`)
		for i, s := range states {
			x, y := screen(at(s, c, nodes-1))
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	for c := 0; c < chains; c++ {
		sb.WriteString(`<polyline fill="none" stroke="#00ff88" stroke-width="2" points="`)
		for n := 0; n < nodes; n++ {
			x, y := screen(at(last, c, n))
			if n > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString("\"/>\n")

		for n := 0; n < nodes; n++ {
			x, y := screen(at(last, c, n))
			fill := "#00ff88"
			if n == 0 {
				fill = "#ff00ff"
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

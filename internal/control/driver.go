package control

import "fmt"

// Driver moves control points over time. The solver only reads them.
type Driver interface {
	Update(points *Points, t float64)
}

// New returns the driver registered under kind.
func New(kind string, amplitude, frequency float64, axis string) (Driver, error) {
	switch kind {
	case "", "none":
		return NewNone(), nil
	case "sway":
		return NewSway(amplitude, frequency, axis)
	case "manual":
		return NewManual(), nil
	default:
		return nil, fmt.Errorf("unknown driver: %s", kind)
	}
}

package control

// None leaves every control point where it was initialised.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Update(*Points, float64) {}

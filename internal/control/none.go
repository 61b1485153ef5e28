package control

import "github.com/san-kum/diffsim/internal/dynamo"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(dynamo.Inputs) (float64, float64) {
	return 0, 0
}

package analysis

import (
	"fmt"
	"sort"

	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/dynamo"
)

type breakpointer interface {
	Breakpoints() []float64
}

// IVCurve samples dev on n evenly spaced voltages in [vmin, vmax]. Breakpoints
// of piecewise devices that fall inside the range are added so the corners are
// drawn exactly.
func IVCurve(dev components.Device, vmin, vmax float64, n int) (v, i []float64, err error) {
	if dev == nil {
		return nil, nil, fmt.Errorf("%w: nil device", dynamo.ErrDomainMismatch)
	}
	if n < 2 || !(vmax > vmin) {
		return nil, nil, fmt.Errorf("%w: need vmax > vmin and n >= 2", dynamo.ErrInvalidParameter)
	}

	v = make([]float64, 0, n+2)
	step := (vmax - vmin) / float64(n-1)
	for k := 0; k < n; k++ {
		v = append(v, vmin+float64(k)*step)
	}
	if bp, ok := dev.(breakpointer); ok {
		for _, b := range bp.Breakpoints() {
			if b > vmin && b < vmax && !contains(v, b) {
				v = append(v, b)
			}
		}
		sort.Float64s(v)
	}

	i = make([]float64, len(v))
	for k, vk := range v {
		i[k] = dev.Current(vk)
	}
	return v, i, nil
}

func contains(xs []float64, x float64) bool {
	for _, y := range xs {
		if y == x {
			return true
		}
	}
	return false
}

package integrators

import "github.com/san-kum/mmwave/internal/dynamo"

// combine writes x + dt·Σ w_j k_j into dst, allocating when dst is nil.
func combine(dst, x dynamo.State, dt float64, w []float64, ks ...dynamo.State) dynamo.State {
	if dst == nil {
		dst = make(dynamo.State, len(x))
	}
	for i := range x {
		s := 0.0
		for j, k := range ks {
			if w[j] != 0 {
				s += w[j] * k[i]
			}
		}
		dst[i] = x[i] + dt*s
	}
	return dst
}

// Package wigner evaluates angular-momentum coupling coefficients.
//
// Arguments are angular momenta and projections as float64 so that
// half-integer values (j = 3/2, mj = -1/2, ...) can be passed directly.
// Combinations that violate a selection rule evaluate to zero.
package wigner

import "math"

func twice(j float64) int {
	return int(math.Round(2 * j))
}

func logFact(n int) float64 {
	v, _ := math.Lgamma(float64(n) + 1)
	return v
}

// triangle reports whether doubled momenta a, b, c satisfy the triangle rule
// with an integer perimeter.
func triangle(a, b, c int) bool {
	if (a+b+c)%2 != 0 {
		return false
	}
	return c >= abs(a-b) && c <= a+b
}

// logDelta is ln Δ(abc) for doubled momenta.
func logDelta(a, b, c int) float64 {
	return logFact((a+b-c)/2) + logFact((a-b+c)/2) + logFact((-a+b+c)/2) - logFact((a+b+c)/2+1)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(n int) float64 {
	if n%2 == 0 {
		return 1
	}
	return -1
}

func validProjection(j, m int) bool {
	return abs(m) <= j && (j+m)%2 == 0
}

// ThreeJ returns the Wigner 3j symbol (j1 j2 j3; m1 m2 m3).
func ThreeJ(j1, j2, j3, m1, m2, m3 float64) float64 {
	a, b, c := twice(j1), twice(j2), twice(j3)
	ma, mb, mc := twice(m1), twice(m2), twice(m3)

	if ma+mb+mc != 0 || !triangle(a, b, c) {
		return 0
	}
	if !validProjection(a, ma) || !validProjection(b, mb) || !validProjection(c, mc) {
		return 0
	}

	pre := 0.5*logDelta(a, b, c) + 0.5*(logFact((a+ma)/2)+logFact((a-ma)/2)+
		logFact((b+mb)/2)+logFact((b-mb)/2)+
		logFact((c+mc)/2)+logFact((c-mc)/2))

	// all in doubled units; k runs over integers
	kmin := 0
	if v := (b - c - ma) / 2; v > kmin {
		kmin = v
	}
	if v := (a - c + mb) / 2; v > kmin {
		kmin = v
	}
	kmax := (a + b - c) / 2
	if v := (a - ma) / 2; v < kmax {
		kmax = v
	}
	if v := (b + mb) / 2; v < kmax {
		kmax = v
	}

	sum := 0.0
	for k := kmin; k <= kmax; k++ {
		den := logFact(k) + logFact((c-b+ma)/2+k) + logFact((c-a-mb)/2+k) +
			logFact((a+b-c)/2-k) + logFact((a-ma)/2-k) + logFact((b+mb)/2-k)
		sum += sign(k) * math.Exp(pre-den)
	}

	return sign((a-b-mc)/2) * sum
}

// SixJ returns the Wigner 6j symbol {j1 j2 j3; j4 j5 j6}.
func SixJ(j1, j2, j3, j4, j5, j6 float64) float64 {
	a, b, c := twice(j1), twice(j2), twice(j3)
	d, e, f := twice(j4), twice(j5), twice(j6)

	if !triangle(a, b, c) || !triangle(a, e, f) || !triangle(d, b, f) || !triangle(d, e, c) {
		return 0
	}

	pre := 0.5 * (logDelta(a, b, c) + logDelta(a, e, f) + logDelta(d, b, f) + logDelta(d, e, c))

	tmin := (a + b + c) / 2
	for _, v := range []int{(a + e + f) / 2, (d + b + f) / 2, (d + e + c) / 2} {
		if v > tmin {
			tmin = v
		}
	}
	tmax := (a + b + d + e) / 2
	for _, v := range []int{(b + c + e + f) / 2, (c + a + f + d) / 2} {
		if v < tmax {
			tmax = v
		}
	}

	sum := 0.0
	for t := tmin; t <= tmax; t++ {
		num := logFact(t + 1)
		den := logFact(t-(a+b+c)/2) + logFact(t-(a+e+f)/2) + logFact(t-(d+b+f)/2) +
			logFact(t-(d+e+c)/2) + logFact((a+b+d+e)/2-t) + logFact((b+c+e+f)/2-t) +
			logFact((c+a+f+d)/2-t)
		sum += sign(t) * math.Exp(pre+num-den)
	}
	return sum
}

// ClebschGordan returns <j1 m1; j2 m2 | J M>.
func ClebschGordan(j1, m1, j2, m2, J, M float64) float64 {
	phase := sign(twice(j1-j2+M) / 2)
	return phase * math.Sqrt(2*J+1) * ThreeJ(j1, j2, J, m1, m2, -M)
}

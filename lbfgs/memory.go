package lbfgs

import "gonum.org/v1/gonum/floats"

// memory holds the most recent correction pairs for the two-loop recursion.
type memory struct {
	m     int
	s     [][]float64
	y     [][]float64
	rho   []float64
	alpha []float64
	k     int // pairs stored since the last reset
	size  int
}

func newMemory(n, m int) *memory {
	if m < 1 {
		m = 1
	}
	l := &memory{
		m:     m,
		s:     make([][]float64, m),
		y:     make([][]float64, m),
		rho:   make([]float64, m),
		alpha: make([]float64, m),
	}
	for i := range m {
		l.s[i] = make([]float64, n)
		l.y[i] = make([]float64, n)
	}
	return l
}

// update stores a correction pair. Pairs without positive curvature are
// dropped.
func (l *memory) update(s, y []float64) {
	sy := floats.Dot(s, y)
	if sy <= 0 {
		return
	}
	idx := l.k % l.m
	copy(l.s[idx], s)
	copy(l.y[idx], y)
	l.rho[idx] = 1 / sy
	l.k++
	if l.size < l.m {
		l.size++
	}
}

func (l *memory) reset() {
	l.k = 0
	l.size = 0
}

// index maps i in [0, size), oldest first, to a ring slot.
func (l *memory) index(i int) int {
	return (l.k - l.size + i) % l.m
}

// direction writes the quasi-Newton descent direction -H*g into d.
func (l *memory) direction(d, g []float64) {
	copy(d, g)
	if l.size == 0 {
		floats.Scale(-1, d)
		return
	}

	for i := l.size - 1; i >= 0; i-- {
		idx := l.index(i)
		l.alpha[i] = l.rho[idx] * floats.Dot(l.s[idx], d)
		floats.AddScaled(d, -l.alpha[i], l.y[idx])
	}

	// H_0 = (s'y / y'y) I from the newest pair.
	newest := l.index(l.size - 1)
	if yy := floats.Dot(l.y[newest], l.y[newest]); yy > 0 {
		floats.Scale(1/(l.rho[newest]*yy), d)
	}

	for i := range l.size {
		idx := l.index(i)
		b := l.rho[idx] * floats.Dot(l.y[idx], d)
		floats.AddScaled(d, l.alpha[i]-b, l.s[idx])
	}
	floats.Scale(-1, d)
}

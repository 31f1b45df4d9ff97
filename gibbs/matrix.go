package gibbs

import "errors"

var (
	ErrIndexOutOfRange = errors.New("gibbs: index out of range")
	ErrNegativeCount   = errors.New("gibbs: count decremented below zero")
)

// Matrix is a dense row-major count matrix. The (r*cols + c)-th element of
// the underlying slice is the [r, c]-th element.
type Matrix struct {
	rows int
	cols int
	data []int
}

// NewMatrix creates a zeroed rows x cols count matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(ErrIndexOutOfRange)
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]int, rows*cols),
	}
}

// Shape returns the number of rows and columns.
func (m *Matrix) Shape() (int, int) {
	return m.rows, m.cols
}

// Get returns the [r, c]-th element.
func (m *Matrix) Get(r, c int) int {
	return m.data[r*m.cols+c]
}

// Row returns the r-th row. The slice aliases the matrix storage.
func (m *Matrix) Row(r int) []int {
	return m.data[r*m.cols : (r+1)*m.cols]
}

// Incr increments the [r, c]-th element by one.
func (m *Matrix) Incr(r, c int) {
	m.data[r*m.cols+c]++
}

// Decr decrements the [r, c]-th element by one. Counts never go negative.
func (m *Matrix) Decr(r, c int) {
	i := r*m.cols + c
	if m.data[i] == 0 {
		panic(ErrNegativeCount)
	}
	m.data[i]--
}

// Equal reports whether both matrices have the same shape and contents.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

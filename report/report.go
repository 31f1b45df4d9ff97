// Package report writes the averaged distributions of a finished run as
// plain-text matrices, top-N listings, a run summary and an HTML chart of the
// log-likelihood trace.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Precision is the number of decimals used for probabilities.
const Precision = 6

// WriteMatrix writes one row per line, values separated by single spaces.
func WriteMatrix(w io.Writer, m mat.Matrix) error {
	bw := bufio.NewWriter(w)
	rows, cols := m.Dims()
	buf := make([]byte, 0, 16)
	for r := range rows {
		for c := range cols {
			if c > 0 {
				_ = bw.WriteByte(' ')
			}
			buf = strconv.AppendFloat(buf[:0], m.At(r, c), 'f', Precision, 64)
			_, _ = bw.Write(buf)
		}
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}

// TopN returns the indices of the n largest values, largest first. n is
// clamped to len(values).
func TopN(values []float64, n int) []int {
	n = min(n, len(values))
	if n <= 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	inds := make([]int, len(values))
	floats.Argsort(sorted, inds)
	top := make([]int, n)
	for j := range n {
		top[j] = inds[len(inds)-1-j]
	}
	return top
}

// WriteTopWords lists the n most probable words of every topic of phi
// (T x V). label names word ids.
func WriteTopWords(w io.Writer, phi mat.Matrix, n int, label func(int) string) error {
	bw := bufio.NewWriter(w)
	rows, _ := phi.Dims()
	for k := range rows {
		row := mat.Row(nil, k, phi)
		fmt.Fprintf(bw, "Topic %d:\n", k)
		for _, i := range TopN(row, n) {
			fmt.Fprintf(bw, "\t%s\t%.*f\n", label(i), Precision, row[i])
		}
	}
	return bw.Flush()
}

// WriteTopTopics writes, for every row of theta (documents or entities by
// topics), its label followed by its n most probable topics as topic:prob.
func WriteTopTopics(w io.Writer, theta mat.Matrix, n int, label func(int) string) error {
	bw := bufio.NewWriter(w)
	rows, _ := theta.Dims()
	for r := range rows {
		row := mat.Row(nil, r, theta)
		_, _ = bw.WriteString(label(r))
		for _, k := range TopN(row, n) {
			fmt.Fprintf(bw, " %d:%.*f", k, Precision, row[k])
		}
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}

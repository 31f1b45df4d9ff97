package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// WordGraph is an undirected similarity graph over word ids.
type WordGraph struct {
	adj [][]int
}

// NewWordGraph creates a graph over numWords vertices with no edges.
func NewWordGraph(numWords int) *WordGraph {
	return &WordGraph{adj: make([][]int, numWords)}
}

// NumWords returns the number of vertices.
func (g *WordGraph) NumWords() int {
	return len(g.adj)
}

// AddEdge connects i and j. Self-loops and repeated edges are ignored.
// It reports whether a new edge was added.
func (g *WordGraph) AddEdge(i, j int) bool {
	if i == j || g.HasEdge(i, j) {
		return false
	}
	g.adj[i] = append(g.adj[i], j)
	g.adj[j] = append(g.adj[j], i)
	return true
}

// HasEdge reports whether i and j are connected.
func (g *WordGraph) HasEdge(i, j int) bool {
	return slices.Contains(g.adj[i], j)
}

// Neighbors returns the words adjacent to i. The slice must not be modified.
func (g *WordGraph) Neighbors(i int) []int {
	return g.adj[i]
}

// Edges returns every edge once, as (i, j) with i < j.
func (g *WordGraph) Edges() [][2]int {
	var edges [][2]int
	for i, nbrs := range g.adj {
		for _, j := range nbrs {
			if i < j {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

// NumEdges returns the number of undirected edges.
func (g *WordGraph) NumEdges() int {
	n := 0
	for _, nbrs := range g.adj {
		n += len(nbrs)
	}
	return n / 2
}

// LoadGraph reads an adjacency list file. See ParseGraph.
func LoadGraph(path string, numWords int) (*WordGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseGraph(f, numWords)
}

// ParseGraph reads lines of the form "word neighbor neighbor ...". Edges are
// undirected, so listing an edge from either end (or both) is the same.
func ParseGraph(r io.Reader, numWords int) (*WordGraph, error) {
	g := NewWordGraph(numWords)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		ids := make([]int, len(fields))
		for k, f := range fields {
			id, err := strconv.Atoi(f)
			if err != nil || id < 0 || id >= numWords {
				return nil, fmt.Errorf("%w: graph line %d: bad word id %q", ErrMalformed, lineNo, f)
			}
			ids[k] = id
		}
		for _, j := range ids[1:] {
			g.AddEdge(ids[0], j)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

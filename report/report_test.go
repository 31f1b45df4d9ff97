package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/archanas28/trungng-sub002/corpus"
	"github.com/archanas28/trungng-sub002/gibbs"
)

func TestWriteMatrix(t *testing.T) {
	var buf bytes.Buffer
	m := mat.NewDense(2, 3, []float64{0.5, 0.25, 0.25, 1.0 / 3, 0, 2.0 / 3})
	require.NoError(t, WriteMatrix(&buf, m))
	assert.Equal(t, "0.500000 0.250000 0.250000\n0.333333 0.000000 0.666667\n", buf.String())
}

func TestTopN(t *testing.T) {
	values := []float64{0.1, 0.4, 0.05, 0.3, 0.15}
	assert.Equal(t, []int{1, 3, 4}, TopN(values, 3))
	assert.Equal(t, []int{1, 3, 4, 0, 2}, TopN(values, 10))
	assert.Nil(t, TopN(values, 0))
	assert.Equal(t, []float64{0.1, 0.4, 0.05, 0.3, 0.15}, values)
}

func TestWriteTopWords(t *testing.T) {
	var buf bytes.Buffer
	phi := mat.NewDense(2, 3, []float64{0.2, 0.7, 0.1, 0.6, 0.1, 0.3})
	vocab := corpus.NumberedVocabulary(3)
	require.NoError(t, WriteTopWords(&buf, phi, 2, vocab.String))
	want := "Topic 0:\n\tw1\t0.700000\n\tw0\t0.200000\n" +
		"Topic 1:\n\tw0\t0.600000\n\tw2\t0.300000\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTopTopics(t *testing.T) {
	var buf bytes.Buffer
	theta := mat.NewDense(1, 3, []float64{0.1, 0.3, 0.6})
	require.NoError(t, WriteTopTopics(&buf, theta, 2, func(int) string { return "doc0" }))
	assert.Equal(t, "doc0 2:0.600000 1:0.300000\n", buf.String())
}

func TestWriteSummaryGroupsDigits(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, Summary{
		RunID:         "abc",
		Variant:       "lda",
		Seed:          1234567,
		Tokens:        1234567,
		LogLikelihood: math.NaN(),
	}))
	out := buf.String()
	assert.Contains(t, out, "seed:          1234567\n")
	assert.Contains(t, out, "tokens:        1,234,567\n")
	assert.NotContains(t, out, "loglik")
}

func TestWriteTraceChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTraceChart(&buf, "corpus", []int{10, 20}, []float64{-120.5, -110.25}))
	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "corpus")

	assert.Error(t, WriteTraceChart(&buf, "corpus", []int{10}, nil))
}

func TestSaveEntityModel(t *testing.T) {
	reg := corpus.NewRegistry()
	reg.Register("acme")
	model := &gibbs.Model{
		Theta:       mat.NewDense(2, 2, []float64{0.9, 0.1, 0.4, 0.6}),
		Phi:         mat.NewDense(2, 3, []float64{0.5, 0.3, 0.2, 0.1, 0.1, 0.8}),
		EntityTheta: mat.NewDense(1, 2, []float64{0.25, 0.75}),
		Samples:     2,
	}
	trace := &gibbs.Trace{LoggedSweeps: []int{5}, LogLikelihood: []float64{-42}}
	dir := t.TempDir()

	paths, err := Save(dir, "run", Output{
		Model:     model,
		Trace:     trace,
		Registry:  reg,
		Summary:   Summary{Variant: "entity", LogLikelihood: LastLogLikelihood(trace)},
		TopWords:  2,
		TopTopics: 1,
	})
	require.NoError(t, err)

	var exts []string
	for _, p := range paths {
		exts = append(exts, strings.TrimPrefix(filepath.Ext(p), "."))
	}
	assert.ElementsMatch(t, []string{"theta", "phi", "twords", "dtopics", "etheta", "etopics", "summary", "html"}, exts)

	etopics, err := os.ReadFile(filepath.Join(dir, "run.etopics"))
	require.NoError(t, err)
	assert.Equal(t, "acme 1:0.750000\n", string(etopics))

	twords, err := os.ReadFile(filepath.Join(dir, "run.twords"))
	require.NoError(t, err)
	assert.Contains(t, string(twords), "\tw2\t0.800000\n")

	summary, err := os.ReadFile(filepath.Join(dir, "run.summary"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "loglik:        -42.00\n")
}

func TestSavePlainModelSkipsEntityFiles(t *testing.T) {
	model := &gibbs.Model{
		Theta: mat.NewDense(1, 2, []float64{0.5, 0.5}),
		Phi:   mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5}),
	}
	dir := t.TempDir()
	paths, err := Save(dir, "plain", Output{Model: model, TopWords: 1, TopTopics: 1, Summary: Summary{LogLikelihood: math.NaN()}})
	require.NoError(t, err)
	assert.Len(t, paths, 5)
	_, err = os.Stat(filepath.Join(dir, "plain.etheta"))
	assert.True(t, os.IsNotExist(err))
}

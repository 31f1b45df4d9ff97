package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/archanas28/trungng-sub002/corpus"
	"github.com/archanas28/trungng-sub002/gibbs"
)

// Output is everything Save writes.
type Output struct {
	Model      *gibbs.Model
	Trace      *gibbs.Trace
	Vocabulary *corpus.Vocabulary
	Registry   *corpus.Registry // nil for the plain sampler
	Summary    Summary

	TopWords  int // words listed per topic
	TopTopics int // topics listed per document or entity
}

// Save writes the report files <name>.theta, .phi, .twords, .dtopics,
// .summary and .html into dir, plus .etheta and .etopics when the model has
// entity distributions. It returns the written paths.
func Save(dir, name string, out Output) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	m := out.Model
	vocab := out.Vocabulary
	if vocab == nil {
		_, v := m.Phi.Dims()
		vocab = corpus.NumberedVocabulary(v)
	}

	type file struct {
		ext   string
		write func(io.Writer) error
	}
	files := []file{
		{"theta", func(w io.Writer) error { return WriteMatrix(w, m.Theta) }},
		{"phi", func(w io.Writer) error { return WriteMatrix(w, m.Phi) }},
		{"twords", func(w io.Writer) error { return WriteTopWords(w, m.Phi, out.TopWords, vocab.String) }},
		{"dtopics", func(w io.Writer) error {
			return WriteTopTopics(w, m.Theta, out.TopTopics, func(r int) string { return fmt.Sprintf("doc%d", r) })
		}},
	}
	if m.EntityTheta != nil {
		label := func(r int) string { return fmt.Sprintf("entity%d", r) }
		if out.Registry != nil {
			label = out.Registry.String
		}
		files = append(files,
			file{"etheta", func(w io.Writer) error { return WriteMatrix(w, m.EntityTheta) }},
			file{"etopics", func(w io.Writer) error { return WriteTopTopics(w, m.EntityTheta, out.TopTopics, label) }},
		)
	}
	files = append(files, file{"summary", func(w io.Writer) error { return WriteSummary(w, out.Summary) }})
	if out.Trace != nil && len(out.Trace.LoggedSweeps) > 0 {
		files = append(files, file{"html", func(w io.Writer) error {
			return WriteTraceChart(w, name, out.Trace.LoggedSweeps, out.Trace.LogLikelihood)
		}})
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, name+"."+f.ext)
		if err := writeFile(path, f.write); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LastLogLikelihood returns the last logged value of t, or NaN.
func LastLogLikelihood(t *gibbs.Trace) float64 {
	if t == nil || len(t.LogLikelihood) == 0 {
		return math.NaN()
	}
	return t.LogLikelihood[len(t.LogLikelihood)-1]
}

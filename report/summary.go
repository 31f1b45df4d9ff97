package report

import (
	"io"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary describes a finished run.
type Summary struct {
	RunID         string
	Variant       string // "lda" or "entity"
	Seed          int64
	Documents     int
	Tokens        int
	Vocabulary    int
	Entities      int
	Topics        int
	Sweeps        int
	Samples       int
	Optimizations int
	LogLikelihood float64 // last logged value, NaN if none was logged
}

// WriteSummary writes s as aligned "key: value" lines with grouped digits.
func WriteSummary(w io.Writer, s Summary) error {
	p := message.NewPrinter(language.English)
	lines := []struct {
		key   string
		value any
	}{
		{"run", s.RunID},
		{"variant", s.Variant},
		{"seed", strconv.FormatInt(s.Seed, 10)}, // no digit grouping
		{"documents", s.Documents},
		{"tokens", s.Tokens},
		{"vocabulary", s.Vocabulary},
		{"entities", s.Entities},
		{"topics", s.Topics},
		{"sweeps", s.Sweeps},
		{"samples", s.Samples},
		{"optimizations", s.Optimizations},
	}
	for _, l := range lines {
		var err error
		switch v := l.value.(type) {
		case string:
			_, err = p.Fprintf(w, "%-14s %s\n", l.key+":", v)
		default:
			_, err = p.Fprintf(w, "%-14s %d\n", l.key+":", v)
		}
		if err != nil {
			return err
		}
	}
	if !math.IsNaN(s.LogLikelihood) {
		if _, err := p.Fprintf(w, "%-14s %.2f\n", "loglik:", s.LogLikelihood); err != nil {
			return err
		}
	}
	return nil
}

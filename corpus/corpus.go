// Package corpus holds the immutable inputs of a sampling run: tokenized
// documents, the vocabulary, the entity registry and the word similarity graph.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed is returned when an input file cannot be parsed.
var ErrMalformed = errors.New("corpus: malformed input")

// WordCount is one "wordId:count" pair of a bag-of-words record.
type WordCount struct {
	WordID int
	Count  int
}

// Document is an ordered sequence of word ids.
type Document struct {
	Words []int
}

// Len returns the number of tokens in the document.
func (d Document) Len() int {
	return len(d.Words)
}

// Corpus is an ordered list of documents over a vocabulary of VocabSize words.
type Corpus struct {
	Docs      []Document
	VocabSize int
}

// NumDocs returns the number of documents.
func (c *Corpus) NumDocs() int {
	return len(c.Docs)
}

// NumTokens returns the total number of tokens across all documents.
func (c *Corpus) NumTokens() int {
	n := 0
	for _, d := range c.Docs {
		n += d.Len()
	}
	return n
}

// Words returns the token arrays of all documents.
func (c *Corpus) Words() [][]int {
	out := make([][]int, len(c.Docs))
	for m, d := range c.Docs {
		out[m] = d.Words
	}
	return out
}

// New builds a corpus from token arrays. VocabSize is one past the largest
// word id unless vocabSize is larger.
func New(docs [][]int, vocabSize int) (*Corpus, error) {
	c := &Corpus{Docs: make([]Document, len(docs)), VocabSize: vocabSize}
	for m, words := range docs {
		for _, w := range words {
			if w < 0 {
				return nil, fmt.Errorf("%w: document %d: negative word id %d", ErrMalformed, m, w)
			}
			if w >= c.VocabSize {
				c.VocabSize = w + 1
			}
		}
		c.Docs[m] = Document{Words: words}
	}
	return c, nil
}

// ExpandWords turns word counts into a flat token array, keeping pair order.
func ExpandWords(wcs []WordCount) []int {
	total := 0
	for _, wc := range wcs {
		total += wc.Count
	}
	words := make([]int, 0, total)
	for _, wc := range wcs {
		for range wc.Count {
			words = append(words, wc.WordID)
		}
	}
	return words
}

// Load reads a bag-of-words corpus file. See Parse for the format.
func Load(path string, vocabSize int) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f, vocabSize)
}

// Parse reads one document per line:
//
//	distinct total wordId:count wordId:count ...
//
// The number of pairs must equal distinct and the counts must add up to
// total. Blank lines and lines starting with '#' are skipped. If vocabSize is
// positive every word id must be below it; otherwise the vocabulary size is
// inferred from the largest id.
func Parse(r io.Reader, vocabSize int) (*Corpus, error) {
	c := &Corpus{VocabSize: vocabSize}
	maxID := -1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		wcs, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		for _, wc := range wcs {
			if vocabSize > 0 && wc.WordID >= vocabSize {
				return nil, fmt.Errorf("%w: line %d: word id %d outside vocabulary of %d",
					ErrMalformed, lineNo, wc.WordID, vocabSize)
			}
			maxID = max(maxID, wc.WordID)
		}
		c.Docs = append(c.Docs, Document{Words: ExpandWords(wcs)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if c.VocabSize <= 0 {
		c.VocabSize = maxID + 1
	}
	return c, nil
}

func parseRecord(line string) ([]WordCount, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: missing distinct/total header", ErrMalformed)
	}
	distinct, err := strconv.Atoi(fields[0])
	if err != nil || distinct < 0 {
		return nil, fmt.Errorf("%w: bad distinct count %q", ErrMalformed, fields[0])
	}
	total, err := strconv.Atoi(fields[1])
	if err != nil || total < 0 {
		return nil, fmt.Errorf("%w: bad total count %q", ErrMalformed, fields[1])
	}
	pairs := fields[2:]
	if len(pairs) != distinct {
		return nil, fmt.Errorf("%w: header says %d distinct words, found %d", ErrMalformed, distinct, len(pairs))
	}

	wcs := make([]WordCount, 0, len(pairs))
	sum := 0
	for _, kv := range pairs {
		w, cnt, ok := strings.Cut(kv, ":")
		if !ok {
			return nil, fmt.Errorf("%w: bad word count %q", ErrMalformed, kv)
		}
		id, err := strconv.Atoi(w)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%w: bad word id %q", ErrMalformed, w)
		}
		n, err := strconv.Atoi(cnt)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: bad count %q", ErrMalformed, cnt)
		}
		sum += n
		wcs = append(wcs, WordCount{WordID: id, Count: n})
	}
	if sum != total {
		return nil, fmt.Errorf("%w: header says %d tokens, counts add up to %d", ErrMalformed, total, sum)
	}
	return wcs, nil
}

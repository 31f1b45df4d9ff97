package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Alphabet interns strings as dense ids 0, 1, 2, ... in insertion order.
type Alphabet struct {
	ids   map[string]int
	names []string
}

func NewAlphabet() *Alphabet {
	return &Alphabet{ids: make(map[string]int)}
}

// Add interns s and returns its id.
func (a *Alphabet) Add(s string) int {
	if id, ok := a.ids[s]; ok {
		return id
	}
	id := len(a.names)
	a.ids[s] = id
	a.names = append(a.names, s)
	return id
}

// Get returns the id of s, or -1.
func (a *Alphabet) Get(s string) int {
	if id, ok := a.ids[s]; ok {
		return id
	}
	return -1
}

// String returns the string with the given id; unknown ids print as "#id".
func (a *Alphabet) String(id int) string {
	if id < 0 || id >= len(a.names) {
		return fmt.Sprintf("#%d", id)
	}
	return a.names[id]
}

func (a *Alphabet) Size() int {
	return len(a.names)
}

// Vocabulary maps word ids to surface strings. It is used for reporting only.
type Vocabulary struct {
	*Alphabet
}

// LoadVocabulary reads one word per line; the line index is the word id.
func LoadVocabulary(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseVocabulary(f)
}

// ParseVocabulary reads one word per line. Duplicate words are malformed
// since they would make two ids share one surface string.
func ParseVocabulary(r io.Reader) (*Vocabulary, error) {
	v := &Vocabulary{Alphabet: NewAlphabet()}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			return nil, fmt.Errorf("%w: vocabulary line %d is empty", ErrMalformed, lineNo)
		}
		if v.Get(word) >= 0 {
			return nil, fmt.Errorf("%w: vocabulary line %d repeats %q", ErrMalformed, lineNo, word)
		}
		v.Add(word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// NumberedVocabulary returns a vocabulary whose words are their own ids.
func NumberedVocabulary(size int) *Vocabulary {
	v := &Vocabulary{Alphabet: NewAlphabet()}
	for i := range size {
		v.Add(fmt.Sprintf("w%d", i))
	}
	return v
}

package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// EntityRef is one entity of a document together with its in-document
// occurrence count.
type EntityRef struct {
	ID    int
	Count int
}

// Registry deduplicates entities across the whole corpus and assigns them
// dense ids in [0, Size()).
type Registry struct {
	*Alphabet
}

// NewRegistry creates an empty entity registry.
func NewRegistry() *Registry {
	return &Registry{Alphabet: NewAlphabet()}
}

// Register canonicalizes name and returns its id, adding it if needed.
func (r *Registry) Register(name string) int {
	return r.Add(Canonical(name))
}

// Lookup returns the id of name, or -1 if it was never registered.
func (r *Registry) Lookup(name string) int {
	return r.Get(Canonical(name))
}

// Canonical normalizes an entity name. Names are case-folded and trimmed;
// URL-like names collapse to their registrable domain so that every page of
// one site is the same entity.
func Canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	idx := strings.Index(name, "://")
	if idx < 0 {
		return name
	}
	host := name[idx+3:]
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// Associations lists the entities of every document, indexed like the
// corpus documents.
type Associations [][]EntityRef

// Tokens returns the total entity occurrence count of document m.
func (a Associations) Tokens(m int) int {
	if m >= len(a) {
		return 0
	}
	n := 0
	for _, e := range a[m] {
		n += e.Count
	}
	return n
}

// Of returns the entities of document m, or nil if it has none.
func (a Associations) Of(m int) []EntityRef {
	if m >= len(a) {
		return nil
	}
	return a[m]
}

// LoadEntities reads a document-entity file. See ParseEntities.
func LoadEntities(path string, numDocs int, reg *Registry) (Associations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseEntities(f, numDocs, reg)
}

// ParseEntities reads one line per document listing "name:count" items.
// An empty line means the document has no entities; missing trailing lines
// are treated the same way. Repeated names within a line are merged.
func ParseEntities(r io.Reader, numDocs int, reg *Registry) (Associations, error) {
	assoc := make(Associations, numDocs)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	m := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if m >= numDocs {
			if line == "" {
				continue
			}
			return nil, fmt.Errorf("%w: entities line %d but corpus has %d documents", ErrMalformed, m+1, numDocs)
		}
		refs, err := parseEntityLine(line, reg)
		if err != nil {
			return nil, fmt.Errorf("entities line %d: %w", m+1, err)
		}
		assoc[m] = refs
		m++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return assoc, nil
}

func parseEntityLine(line string, reg *Registry) ([]EntityRef, error) {
	if line == "" {
		return nil, nil
	}
	var refs []EntityRef
	pos := make(map[int]int)
	for _, item := range strings.Fields(line) {
		i := strings.LastIndex(item, ":")
		if i <= 0 {
			return nil, fmt.Errorf("%w: bad entity %q", ErrMalformed, item)
		}
		cnt, err := strconv.Atoi(item[i+1:])
		if err != nil || cnt <= 0 {
			return nil, fmt.Errorf("%w: bad entity count %q", ErrMalformed, item)
		}
		id := reg.Register(item[:i])
		if j, ok := pos[id]; ok {
			refs[j].Count += cnt
			continue
		}
		pos[id] = len(refs)
		refs = append(refs, EntityRef{ID: id, Count: cnt})
	}
	return refs, nil
}

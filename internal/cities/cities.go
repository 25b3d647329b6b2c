// Package cities holds the allow-list of administrative centres that accept delivery.
package cities

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/carddelivery/internal/constants"
)

//go:embed cities.txt
var defaultList string

// Set is an immutable, case-insensitive set of city names.
// It is safe for concurrent use.
type Set struct {
	names []string            // display names, in source order
	index map[string]struct{} // normalized names
}

// New builds a Set from display names. Blank names and duplicates are dropped.
func New(names []string) *Set {
	s := &Set{index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := Normalize(name)
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = struct{}{}
		s.names = append(s.names, name)
	}
	return s
}

// Default returns the built-in allow-list.
func Default() *Set {
	s, err := Read(strings.NewReader(defaultList))
	if err != nil {
		// The embedded list is static; failing to read it is a build defect.
		panic(fmt.Sprintf("cities: embedded list unreadable: %v", err))
	}
	return s
}

// Read parses one city per line. Empty lines and lines starting with '#' are ignored.
func Read(r io.Reader) (*Set, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read city list: %w", err)
	}
	return New(names), nil
}

// LoadFile reads an allow-list file. An empty path returns the built-in list.
func LoadFile(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open city list %q: %w", path, err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("city list %q is empty", path)
	}
	return s, nil
}

// Normalize trims and lower-cases a city name. Hyphens and inner spaces are kept.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Contains reports whether name exactly matches an entry, ignoring case and
// surrounding whitespace.
func (s *Set) Contains(name string) bool {
	_, ok := s.index[Normalize(name)]
	return ok
}

// Len returns the number of cities.
func (s *Set) Len() int {
	return len(s.names)
}

// Names returns the display names in source order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Suggest returns the cities whose name starts with query, as the form's dropdown
// would list them. Fewer than two typed letters yield no suggestions.
func (s *Set) Suggest(query string) []string {
	q := Normalize(query)
	if len([]rune(q)) < constants.MinSuggestRunes {
		return nil
	}
	var out []string
	for _, name := range s.names {
		if strings.HasPrefix(Normalize(name), q) {
			out = append(out, name)
		}
	}
	return out
}

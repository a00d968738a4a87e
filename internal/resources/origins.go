// Package resources loads operator-editable configuration from disk and
// keeps it fresh while the server runs.
package resources

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// OriginSet is the allow-list of web origins trusted to submit raw
// credentials to the grant endpoint. Lookup is exact string match only:
// no wildcards, no case folding, no subdomain matching.
type OriginSet struct {
	mu      sync.RWMutex
	origins map[string]struct{}
}

func NewOriginSet(origins ...string) *OriginSet {
	set := &OriginSet{origins: make(map[string]struct{})}
	set.replace(origins)
	return set
}

// Trusted reports whether the given Origin header value is in the
// allow-list. A missing or empty header is never trusted.
func (s *OriginSet) Trusted(origin string) bool {
	if origin == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.origins[origin]
	return ok
}

func (s *OriginSet) replace(origins []string) {
	next := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		next[origin] = struct{}{}
	}
	s.mu.Lock()
	s.origins = next
	s.mu.Unlock()
}

// WatchOriginsFile loads the allow-list from a file of one origin per line
// ('#' starts a comment) and reloads it whenever the file changes. A reload
// that fails to read the file leaves the previous allow-list in place.
func WatchOriginsFile(path string) (*OriginSet, error) {
	set := NewOriginSet()

	origins, err := loadOrigins(path)
	if err != nil {
		return nil, err
	}
	set.replace(origins)

	err = watchFile(path, func() {
		origins, err := loadOrigins(path)
		if err != nil {
			log.Printf("origins: reload failed, keeping previous allow-list: %v\n", err)
			return
		}
		set.replace(origins)
		log.Printf("origins: loaded %d trusted origins from %s\n", len(origins), path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch origins file: %v", err)
	}

	log.Printf("origins: loaded %d trusted origins from %s\n", len(origins), path)
	return set, nil
}

// LoadOriginsFile loads the allow-list once, without watching for changes.
func LoadOriginsFile(path string) (*OriginSet, error) {
	origins, err := loadOrigins(path)
	if err != nil {
		return nil, err
	}
	return NewOriginSet(origins...), nil
}

func loadOrigins(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open origins file: %v", err)
	}
	defer file.Close()

	var origins []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		origins = append(origins, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read origins file: %v", err)
	}

	return origins, nil
}

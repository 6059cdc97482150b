// Package memory is the long-term fact store: a small JSON database of user
// facts with keyword-overlap recall.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Fact is one remembered piece of information.
type Fact struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type fileFormat struct {
	LastUpdated time.Time `json:"last_updated"`
	Memories    []Fact    `json:"memories"`
}

// Store persists facts to a single JSON file. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	path   string
	facts  []Fact
	logger zerolog.Logger
}

// NewStore opens (or creates) the fact store at path.
func NewStore(path string, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.With().Str("component", "memory").Logger(),
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	s.logger.Info().Int("facts", len(s.facts)).Str("path", path).Msg("Memory store opened")
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.save()
	}
	if err != nil {
		return fmt.Errorf("read memory file: %w", err)
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode memory file: %w", err)
	}
	s.facts = f.Memories
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(fileFormat{
		LastUpdated: time.Now(),
		Memories:    s.facts,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Remember stores a new fact and persists immediately.
func (s *Store) Remember(text string, tags ...string) (Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fact := Fact{
		ID:        len(s.facts) + 1,
		Text:      text,
		Tags:      tags,
		CreatedAt: time.Now(),
	}
	s.facts = append(s.facts, fact)
	if err := s.save(); err != nil {
		s.facts = s.facts[:len(s.facts)-1]
		return Fact{}, fmt.Errorf("persist fact: %w", err)
	}
	s.logger.Info().Int("id", fact.ID).Msg("Fact remembered")
	return fact, nil
}

// Recall returns up to limit facts ranked by how many query words appear in
// the fact text. Facts with no word overlap are excluded.
func (s *Store) Recall(query string, limit int) []Fact {
	s.mu.Lock()
	defer s.mu.Unlock()

	queryWords := wordSet(query)
	type scored struct {
		score int
		fact  Fact
	}
	var matches []scored
	for _, f := range s.facts {
		score := 0
		for w := range wordSet(f.Text) {
			if queryWords[w] {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{score, f})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Fact, len(matches))
	for i, m := range matches {
		out[i] = m.fact
	}
	return out
}

// All returns every stored fact.
func (s *Store) All() []Fact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Fact, len(s.facts))
	copy(out, s.facts)
	return out
}

// Clear wipes all facts.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = nil
	return s.save()
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

// Package store persists portfolio form payloads as flat JSON files on the
// local filesystem. There is no database and no durability guarantee beyond
// what the filesystem provides.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/portfolio-generator/internal/types"
)

// ErrNotFound indicates the named portfolio file does not exist.
var ErrNotFound = errors.New("portfolio not found")

var whitespace = regexp.MustCompile(`\s+`)

// Store reads and writes portfolio JSON files under a single directory.
type Store struct {
	dir string
}

// Summary is the listing view of one stored portfolio.
type Summary struct {
	Filename     string `json:"filename"`
	Name         string `json:"name"`
	CreatedAt    string `json:"createdAt"`
	ProjectCount int    `json:"projectCount"`
	Relevance    int    `json:"relevance,omitempty"`
}

// New creates the store, making the data directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Filename builds the canonical file name for a portfolio: the sanitized
// owner name joined with an ISO timestamp with path-hostile characters
// replaced.
func Filename(name string, at time.Time) string {
	sanitized := whitespace.ReplaceAllString(name, "_")
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(at.UTC().Format("2006-01-02T15:04:05.000Z"))
	return fmt.Sprintf("%s_%s.json", sanitized, stamp)
}

// Save writes a new portfolio file and returns its filename.
func (s *Store) Save(data *types.PortfolioData) (string, error) {
	filename := Filename(data.PersonalInfo.Name, time.Now())
	if err := s.write(filename, data); err != nil {
		return "", err
	}
	return filename, nil
}

// Get reads one portfolio by filename.
func (s *Store) Get(filename string) (*types.PortfolioData, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read portfolio %s: %w", filename, err)
	}
	var data types.PortfolioData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio %s: %w", filename, err)
	}
	return &data, nil
}

// Update overwrites an existing portfolio file.
func (s *Store) Update(filename string, data *types.PortfolioData) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	return s.write(filename, data)
}

// Delete removes a portfolio file.
func (s *Store) Delete(filename string) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return fmt.Errorf("failed to delete portfolio %s: %w", filename, err)
	}
	return nil
}

// Duplicate copies an existing portfolio under a fresh timestamped name and
// returns the new filename.
func (s *Store) Duplicate(filename string) (string, error) {
	data, err := s.Get(filename)
	if err != nil {
		return "", err
	}
	now := time.Now()
	data.GeneratedAt = now.UTC().Format(time.RFC3339)
	sanitized := whitespace.ReplaceAllString(data.PersonalInfo.Name, "_")
	newFilename := Filename(sanitized+" copy", now)
	if err := s.write(newFilename, data); err != nil {
		return "", err
	}
	return newFilename, nil
}

// List returns summaries of every stored portfolio, newest first.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		summary := Summary{Filename: entry.Name(), Name: "Unknown", CreatedAt: "Unknown"}
		if data, err := s.Get(entry.Name()); err == nil {
			summary.Name = data.PersonalInfo.Name
			if data.GeneratedAt != "" {
				summary.CreatedAt = data.GeneratedAt
			}
			summary.ProjectCount = len(data.Projects)
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})
	return summaries, nil
}

// Search returns portfolios whose name, about text, project names or
// technologies contain the query, ranked by naive occurrence count.
func (s *Store) Search(query string) ([]Summary, error) {
	query = strings.ToLower(query)
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}

	var matches []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := s.Get(entry.Name())
		if err != nil {
			continue
		}

		parts := []string{data.PersonalInfo.Name, data.AboutMe}
		for _, p := range data.Projects {
			parts = append(parts, p.Name)
			parts = append(parts, p.Technologies...)
		}
		searchable := strings.ToLower(strings.Join(parts, " "))
		if !strings.Contains(searchable, query) {
			continue
		}

		matches = append(matches, Summary{
			Filename:     entry.Name(),
			Name:         data.PersonalInfo.Name,
			CreatedAt:    data.GeneratedAt,
			ProjectCount: len(data.Projects),
			Relevance:    strings.Count(searchable, query),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	return matches, nil
}

// resolve rejects path traversal and returns the absolute file path.
func (s *Store) resolve(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	return filepath.Join(s.dir, filename), nil
}

func (s *Store) write(filename string, data *types.PortfolioData) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode portfolio: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write portfolio %s: %w", filename, err)
	}
	return nil
}

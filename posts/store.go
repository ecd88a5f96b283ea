package posts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bhk-seo/seotools/apperr"
)

// ErrNotFound is returned by Get when no post has the slug.
var ErrNotFound = errors.New("post not found")

// Store keeps every post in one JSON array file. Reads see the file as it is
// on disk; writes rewrite the whole file.
type Store struct {
	path string
	// mu serialises read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewStore returns a store over path. The file and its directory are created
// on first access.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// List returns all posts, newest date first. Posts with unparseable dates
// keep their relative order after the dated ones. A missing or corrupt file
// reads as an empty store.
func (s *Store) List() ([]Post, error) {
	s.mu.Lock()
	all, err := s.load()
	s.mu.Unlock()
	if err != nil && !errors.Is(err, errCorrupt) {
		return nil, err
	}
	sortByDate(all)
	return all, nil
}

// Get returns the post with slug, or ErrNotFound.
func (s *Store) Get(slug string) (Post, error) {
	s.mu.Lock()
	all, err := s.load()
	s.mu.Unlock()
	if err != nil && !errors.Is(err, errCorrupt) {
		return Post{}, err
	}
	for _, p := range all {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Upsert stores p, replacing any post with the same slug, and returns the
// stored form. The new post goes to the front of the file. Content is
// sanitized before it is written. Write failures are apperr.ErrPersistenceFailed.
func (s *Store) Upsert(p Post) (Post, error) {
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		return Post{}, apperr.InvalidInput("A post slug is required.")
	}
	p.Content = Sanitize(p.Content)
	if p.Tags == nil {
		p.Tags = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		// Never overwrite a file that could not be read back.
		return Post{}, apperr.Wrapf(apperr.ErrPersistenceFailed, err, "load %s", s.path)
	}

	next := make([]Post, 0, len(all)+1)
	next = append(next, p)
	for _, existing := range all {
		if existing.Slug != p.Slug {
			next = append(next, existing)
		}
	}

	if err := s.write(next); err != nil {
		return Post{}, apperr.Wrapf(apperr.ErrPersistenceFailed, err, "write %s", s.path)
	}
	return p, nil
}

var errCorrupt = errors.New("posts file is not a JSON array of posts")

// load reads the file, creating it as an empty array when absent.
func (s *Store) load() ([]Post, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		// A failed create surfaces on the next write.
		_ = s.write([]Post{})
		return []Post{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read posts: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Post{}, nil
	}

	var all []Post
	if err := json.Unmarshal(data, &all); err != nil {
		return []Post{}, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	if all == nil {
		all = []Post{}
	}
	return all, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (s *Store) write(all []Post) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".posts-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

func sortByDate(all []Post) {
	sort.SliceStable(all, func(i, j int) bool {
		ti, okI := ParseDate(all[i].Date)
		tj, okJ := ParseDate(all[j].Date)
		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI:
			return true
		}
		return false
	})
}

package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Scratch is a temporary directory tree owned by one run.
type Scratch struct {
	root string
}

// NewScratch creates a fresh scratch root below parent, or below the
// system temporary directory when parent is empty.
func NewScratch(parent string) (*Scratch, error) {
	root, err := os.MkdirTemp(parent, "tracktag-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Scratch{root: root}, nil
}

// Root returns the scratch root.
func (s *Scratch) Root() string {
	return s.root
}

// Dir returns root/name, creating it if needed.
func (s *Scratch) Dir(name string) (string, error) {
	dir := filepath.Join(s.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch dir %s: %w", name, err)
	}
	return dir, nil
}

// UniqueDir creates root/name/<uuid> and returns it.
func (s *Scratch) UniqueDir(name string) (string, error) {
	parent, err := s.Dir(name)
	if err != nil {
		return "", err
	}
	return NewUniqueDir(parent)
}

// Close removes the scratch tree. It is safe to call more than once.
func (s *Scratch) Close() error {
	if s == nil || s.root == "" {
		return nil
	}
	err := os.RemoveAll(s.root)
	s.root = ""
	return err
}

// NewUniqueDir creates a directory with a random UUID name below parent.
func NewUniqueDir(parent string) (string, error) {
	dir := filepath.Join(parent, uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("create unique dir: %w", err)
	}
	return dir, nil
}

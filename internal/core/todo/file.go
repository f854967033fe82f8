package todo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Encode writes the list as a YAML document with two-space indentation.
func (l *List) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l.Node()); err != nil {
		return fmt.Errorf("encode todo document: %w", err)
	}
	return enc.Close()
}

// Decode reads a single YAML document from r and parses it as a list.
func Decode(r io.Reader) (*List, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: errors.New("empty document")}
		}
		return nil, &ParseError{Err: err}
	}
	return ParseList(&root)
}

// SaveToFile writes the list to path. The document is written to a temporary
// file in the same directory and renamed over path, so a failed save leaves
// any previous file intact. An existing file keeps its permissions; a new one
// is created 0644. The directory must already exist.
func (l *List) SaveToFile(path string) (err error) {
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := l.Encode(tmp); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	return nil
}

// LoadFromFile reads and parses the todo document at path.
func LoadFromFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

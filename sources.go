package cstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
)

// Source produces a string-to-string mapping for a named property resource.
// Implementations fail when the resource cannot be found, read, or parsed;
// the store never downgrades a load failure to an empty mapping.
type Source interface {
	Load(name string) (map[string]string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(name string) (map[string]string, error)

// Load implements Source.
func (f SourceFunc) Load(name string) (map[string]string, error) {
	if f == nil {
		return nil, fmt.Errorf("cstore: nil source")
	}
	return f(name)
}

// FileSource resolves resource names against an ordered list of lookup paths
// and parses them as Java-style .properties files.
type FileSource struct {
	paths []string
}

// FileSourceOption configures a FileSource.
type FileSourceOption func(*FileSource)

// WithLookupPaths sets the directories searched for resource names, in order.
func WithLookupPaths(paths ...string) FileSourceOption {
	return func(s *FileSource) {
		s.paths = append([]string(nil), paths...)
	}
}

// NewFileSource constructs a FileSource. Without options it resolves names
// against the working directory.
func NewFileSource(opts ...FileSourceOption) *FileSource {
	s := &FileSource{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if len(s.paths) == 0 {
		s.paths = []string{"."}
	}
	return s
}

// Load locates name in the lookup paths and parses it. A name that resolves
// in no path fails with ErrSourceNotFound; a malformed file fails with the
// parser's error. Both are wrapped in *SourceError.
func (s *FileSource) Load(name string) (map[string]string, error) {
	if name == "" {
		return nil, &SourceError{Resource: name, Err: fmt.Errorf("resource name must not be empty")}
	}
	for _, dir := range s.paths {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, &SourceError{Resource: name, Err: err}
		}
		p, err := properties.LoadFile(path, properties.UTF8)
		if err != nil {
			return nil, &SourceError{Resource: name, Err: err}
		}
		return p.Map(), nil
	}
	return nil, &SourceError{Resource: name, Err: fmt.Errorf("%w: %s", ErrSourceNotFound, name)}
}

// EnvSource exposes the process environment as a property source. The name
// argument is ignored; enumeration of the environment cannot fail.
type EnvSource struct{}

// Load implements Source over os.Environ.
func (EnvSource) Load(string) (map[string]string, error) {
	environ := os.Environ()
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			continue
		}
		out[key] = value
	}
	return out, nil
}

// MapSource serves fixed mappings keyed by resource name. Intended for tests
// and embedded configuration.
type MapSource map[string]map[string]string

// Load implements Source.
func (s MapSource) Load(name string) (map[string]string, error) {
	mapping, ok := s[name]
	if !ok {
		return nil, &SourceError{Resource: name, Err: fmt.Errorf("%w: %s", ErrSourceNotFound, name)}
	}
	out := make(map[string]string, len(mapping))
	for key, value := range mapping {
		out[key] = value
	}
	return out, nil
}

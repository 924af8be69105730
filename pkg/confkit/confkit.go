package confkit

import (
	"os"
	"path/filepath"
)

// ResolvePath expands env references in file and, when the result is
// relative, joins it onto base.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// BaseDir returns the directory holding the main config file.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// Section is a sub-config kept in its own file and referenced from the main
// config by path. Value is filled by Hydrate.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate loads File, resolved against base, into Value. An empty File is a
// no-op.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	return s.HydrateDefault(base, "", loader)
}

// HydrateDefault is Hydrate with a fallback file used when File is empty.
// The fallback is only loaded if it exists next to the main config.
func (s *Section[T]) HydrateDefault(base, fallback string, loader func(string) (*T, error)) error {
	file := s.File
	if file == "" {
		if fallback == "" {
			return nil
		}
		if !fileExists(ResolvePath(base, fallback)) {
			return nil
		}
		file = fallback
	}
	p := ResolvePath(base, file)
	v, err := loader(p)
	if err != nil {
		return err
	}
	s.File, s.Value = p, v
	return nil
}

// Loaded reports whether Value has been hydrated.
func (s *Section[T]) Loaded() bool {
	return s.Value != nil
}

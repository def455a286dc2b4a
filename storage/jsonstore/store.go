// Package jsonstore reads and writes one JSON document per dataset file.
package jsonstore

import (
	"os"
	"path/filepath"
	"reflect"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
)

// sorted map keys, 2-space indentation
var codec = sonic.ConfigStd

type Store struct {
	dir string
	log core.Logger
}

func New(dir string, logger core.Logger) *Store {
	return &Store{dir: dir, log: logger}
}

func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Load decodes the named file into v, which must be a non-nil pointer.
// A missing file leaves v at its zero value. So does a file that is not valid JSON, which
// is logged. Valid JSON that does not fit v is an error, so callers never overwrite a
// document they could not read.
func (s *Store) Load(name string, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Errorf("jsonstore: Load(%s) needs a non-nil pointer, got %T", name, v)
	}
	reset := func() { rv.Elem().Set(reflect.Zero(rv.Elem().Type())) }

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		reset()
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", name)
	}
	reset()
	if len(data) == 0 {
		return nil
	}
	if !codec.Valid(data) {
		if s.log != nil {
			s.log.Warn("malformed json file, using default", map[string]interface{}{"file": name})
		}
		return nil
	}
	if err := codec.Unmarshal(data, v); err != nil {
		reset()
		return errors.Wrapf(err, "decoding %s", name)
	}
	return nil
}

// LoadRaw decodes the named file without a target type. ok is false when the file is
// missing or malformed.
func (s *Store) LoadRaw(name string) (doc interface{}, ok bool, err error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "reading %s", name)
	}
	if err := codec.Unmarshal(data, &doc); err != nil {
		if s.log != nil {
			s.log.Warn("malformed json file, using default", map[string]interface{}{"file": name, "error": err.Error()})
		}
		return nil, false, nil
	}
	return doc, true, nil
}

// Save overwrites the named file with v, indented by 2 spaces.
func (s *Store) Save(name string, v interface{}) error {
	data, err := codec.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", name)
	}
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	return nil
}

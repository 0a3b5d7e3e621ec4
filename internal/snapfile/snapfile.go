// Package snapfile stores domain snapshots on disk in msgpack form.
package snapfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/edwinsyarief/kumiai"
)

// Version is bumped whenever the layout of kumiai.Snapshot changes.
const Version = 1

// ErrVersion is returned when a file was written with another Version.
var ErrVersion = errors.New("snapfile: unsupported snapshot version")

type file struct {
	Version  int             `msgpack:"version"`
	Snapshot kumiai.Snapshot `msgpack:"snapshot"`
}

// Encode writes s to w.
func Encode(w io.Writer, s kumiai.Snapshot) error {
	return msgpack.NewEncoder(w).Encode(&file{Version: Version, Snapshot: s})
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (kumiai.Snapshot, error) {
	var f file
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return kumiai.Snapshot{}, err
	}
	if f.Version != Version {
		return kumiai.Snapshot{}, fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}
	return f.Snapshot, nil
}

// Write stores s at path. The file is replaced atomically.
func Write(path string, s kumiai.Snapshot) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	if err := Encode(f, s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Read loads a snapshot stored by Write.
func Read(path string) (kumiai.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return kumiai.Snapshot{}, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return kumiai.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

package session

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wricardo/maze-race/game/engine"
)

const (
	SaveFile = "savegame.txt"
	TempFile = "savegame.tmp"
)

// FilePersistence implements SessionPersistence with a primary save file and a
// temp file in the same directory, so a crash mid-write leaves the previous
// save intact.
type FilePersistence struct {
	dir string
}

// NewFilePersistence creates dir if needed.
func NewFilePersistence(dir string) (*FilePersistence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FilePersistence{dir: dir}, nil
}

// Path returns the primary save file path.
func (fp *FilePersistence) Path() string {
	return filepath.Join(fp.dir, SaveFile)
}

func (fp *FilePersistence) tempPath() string {
	return filepath.Join(fp.dir, TempFile)
}

// Save encodes state into the temp file, syncs it, then renames it over the
// primary save.
func (fp *FilePersistence) Save(state *engine.SessionState) error {
	if state == nil {
		return fmt.Errorf("session cannot be nil")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, state); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := fp.tempPath()
	if err := writeSynced(tmp, buf.Bytes()); err != nil {
		os.Remove(tmp)
		return err
	}

	primary := fp.Path()
	if err := os.Rename(tmp, primary); err != nil {
		// Some filesystems refuse to rename over an existing file.
		if rmErr := os.Remove(primary); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			os.Remove(tmp)
			return &IOError{Op: "remove", Path: primary, Err: rmErr}
		}
		if err := os.Rename(tmp, primary); err != nil {
			os.Remove(tmp)
			return &IOError{Op: "rename", Path: primary, Err: err}
		}
	}
	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &IOError{Op: "sync", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// Load reads and decodes the primary save.
func (fp *FilePersistence) Load() (*engine.SessionState, error) {
	path := fp.Path()
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	state, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return state, nil
}

// Exists checks if the primary save file exists
func (fp *FilePersistence) Exists() bool {
	_, err := os.Stat(fp.Path())
	return err == nil
}

// Delete removes the primary save and any leftover temp file.
func (fp *FilePersistence) Delete() error {
	for _, path := range []string{fp.Path(), fp.tempPath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &IOError{Op: "remove", Path: path, Err: err}
		}
	}
	return nil
}

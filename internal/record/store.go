package record

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/finplan-dev/finplan/internal/filelock"
	"github.com/finplan-dev/finplan/internal/model"
)

// Store reads and writes whole record collections against single files,
// serializing concurrent writers and shielding readers with advisory locks.
//
// The shared lock covers a read and the exclusive lock covers a write; a
// caller's read-modify-write sequence spans two lock windows and is therefore
// last-writer-wins. That is the accepted model for a single-user local tool.
type Store struct {
	codec  Codec
	locker filelock.Locker
}

// NewStore creates a Store. An empty dateLayout selects DateFormat; a nil
// locker selects advisory OS locks.
func NewStore(dateLayout string, locker filelock.Locker) *Store {
	if locker == nil {
		locker = filelock.NewFlock()
	}
	return &Store{codec: NewCodec(dateLayout), locker: locker}
}

// Codec returns the codec the store decodes and encodes rows with.
func (s *Store) Codec() Codec { return s.codec }

// LockPath returns the sidecar file the store locks for a record file. Locks
// go on a stable sibling rather than the record file itself: the atomic
// rename in write swaps the record file's inode, and a lock held on the old
// inode would no longer exclude a locker that opens the path right after the
// swap. The sidecar's inode never changes.
func LockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
}

// ReadItems loads the item collection at path in file order.
// A missing file yields an empty collection, not an error.
func (s *Store) ReadItems(path string) ([]model.ItemRecord, error) {
	var items []model.ItemRecord
	err := s.read(path, func(r io.Reader) error {
		var err error
		items, err = s.codec.ReadItems(r)
		return err
	})
	return items, err
}

// WriteItems replaces the item collection at path.
func (s *Store) WriteItems(path string, items []model.ItemRecord) error {
	return s.write(path, func(w io.Writer) error {
		return s.codec.WriteItems(w, items)
	})
}

// ReadMoney loads the money collection at path in file order.
// A missing file yields an empty collection, not an error.
func (s *Store) ReadMoney(path string) ([]model.MoneyRecord, error) {
	var entries []model.MoneyRecord
	err := s.read(path, func(r io.Reader) error {
		var err error
		entries, err = s.codec.ReadMoney(r)
		return err
	})
	return entries, err
}

// WriteMoney replaces the money collection at path.
func (s *Store) WriteMoney(path string, entries []model.MoneyRecord) error {
	return s.write(path, func(w io.Writer) error {
		return s.codec.WriteMoney(w, entries)
	})
}

func (s *Store) read(path string, decode func(io.Reader) error) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	guard, err := s.locker.Shared(LockPath(path))
	if err != nil {
		return err
	}
	defer guard.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := decode(f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// write encodes into a temp file in the destination's directory and renames
// it over the destination, so a crash mid-write can never leave a truncated
// file. The exclusive lock is held across the whole temp-write-and-rename.
func (s *Store) write(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	guard, err := s.locker.Exclusive(LockPath(path))
	if err != nil {
		return err
	}
	defer guard.Unlock()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	// CreateTemp defaults to 0600; the record file is plain data.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}

	if err := encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

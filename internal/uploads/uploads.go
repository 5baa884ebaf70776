// Package uploads stores complaint proof files and hands back reference
// strings the complaint rows carry.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store writes an uploaded file to the blob area and returns an opaque
// reference usable to retrieve it later. Remove deletes a stored file
// again so a submission that fails after its proofs were written can
// clean up instead of leaving orphans behind.
type Store interface {
	Store(file *multipart.FileHeader) (string, error)
	Remove(ref string) error
}

// DiskStore keeps proofs in a flat directory. References are the
// relative path under which the file is also served statically.
type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{Dir: dir}, nil
}

// Store names the file with a timestamp prefix plus the sanitized
// original name and copies the bytes in. Any failure here aborts the
// complaint submission before a row is inserted.
func (d *DiskStore) Store(file *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().Unix(), sanitize(filepath.Base(file.Filename)))
	dest := filepath.Join(d.Dir, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dest)
		return "", err
	}

	return filepath.ToSlash(filepath.Join(filepath.Base(d.Dir), name)), nil
}

// Remove deletes the file a reference points at. A reference that is
// already gone is not an error.
func (d *DiskStore) Remove(ref string) error {
	err := os.Remove(filepath.Join(d.Dir, filepath.Base(ref)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sanitize strips anything that could escape the upload directory or
// break a URL out of the original filename.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	maxPathBytes = 4096
	maxNameBytes = 255
)

// ValidateOutputPath checks a caller-supplied output path. Violations are
// reported as *ArgumentError on the "output_path" field.
func ValidateOutputPath(p string) error {
	bad := func(msg string) error { return &ArgumentError{Field: "output_path", Message: msg} }
	switch {
	case p == "":
		return bad("must not be empty")
	case strings.IndexByte(p, 0) >= 0:
		return bad("must not contain NUL bytes")
	case len(p) > maxPathBytes:
		return bad(fmt.Sprintf("must be at most %d bytes", maxPathBytes))
	case !strings.EqualFold(filepath.Ext(p), ".pdf"):
		return bad("must end in .pdf")
	}
	if base := filepath.Base(p); len(base) > maxNameBytes {
		return bad(fmt.Sprintf("file name must be at most %d bytes", maxNameBytes))
	}
	return nil
}

// writeAtomic writes data to path through a temporary sibling that is
// renamed into place, so readers never observe a partial document. On
// failure the temporary file is removed and the destination is untouched.
func writeAtomic(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWriteFailed, bareError(err))
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", ErrOutputWriteFailed, bareError(err))
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", ErrOutputWriteFailed, bareError(err))
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWriteFailed, bareError(err))
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWriteFailed, bareError(err))
	}
	return nil
}

package sheet

import (
	"errors"
	"io/fs"
	"os"
)

var (
	// ErrTemplateUnavailable is returned when the template cannot be read,
	// parsed, or carries no form fields.
	ErrTemplateUnavailable = errors.New("template unavailable")
	// ErrOutputWriteFailed is returned when the filled document cannot be
	// written to its destination.
	ErrOutputWriteFailed = errors.New("output write failed")
	// ErrEncodingFailed is returned when the filled document cannot be
	// serialized or is too large to return inline.
	ErrEncodingFailed = errors.New("encoding failed")
	// ErrNotWatchable is returned by Watch for templates that do not live on
	// the OS filesystem.
	ErrNotWatchable = errors.New("template source cannot be watched")
)

// ArgumentError reports a request value that cannot be used.
type ArgumentError struct {
	// Field is the dotted argument path, e.g. "output_path" or
	// "character_data.abilities.strength".
	Field   string
	Message string
}

func (e *ArgumentError) Error() string { return e.Field + ": " + e.Message }

// bareError strips the path from fs errors so that messages never carry
// server-side locations.
func bareError(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}

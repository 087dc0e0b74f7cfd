// Package enginerr defines the error kinds of the viewer engine. Callers
// should match with errors.Is against the sentinel values; wrapped context
// is added with fmt.Errorf("...: %w", ...) at the call site.
package enginerr

import "errors"

var (
	// ErrUnavailableContext is fatal at construction: no hardware-accelerated
	// context could be acquired.
	ErrUnavailableContext = errors.New("engine: no hardware-accelerated context available")

	// ErrDecodeFailure is surfaced by Load when the decoder rejects a URL.
	// The prior transform and texture state are left untouched.
	ErrDecodeFailure = errors.New("engine: image decode failed")

	// ErrTextureCreation marks a recoverable failure of the texture factory.
	// The caller should try the next production path, or keep the current
	// front texture if this happened outside bootstrap.
	ErrTextureCreation = errors.New("engine: texture creation failed")

	// ErrClipboardUnsupported is a non-fatal warning: no clipboard write API
	// is available on this host.
	ErrClipboardUnsupported = errors.New("engine: clipboard unsupported")
)

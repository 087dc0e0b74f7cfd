// Package clipboard implements the engine's Clipboard collaborator as a
// best-effort stub: every write reports enginerr.ErrClipboardUnsupported,
// which the engine logs as a warning and returns wrapped to its caller.
package clipboard

import (
	"context"
	"fmt"

	"github.com/woolen-sheep/afilmory/internal/engine/enginerr"
)

// Clipboard is the no-backend stub Clipboard.
type Clipboard struct{}

// New creates a Clipboard.
func New() *Clipboard { return &Clipboard{} }

// Write always fails: no OS clipboard integration is wired.
func (c *Clipboard) Write(ctx context.Context, blob []byte, mime string) error {
	return fmt.Errorf("%w: no clipboard backend wired", enginerr.ErrClipboardUnsupported)
}

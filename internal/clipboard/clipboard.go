// Package clipboard wraps the system clipboard behind a narrow interface so
// the export path stays testable without a display server.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/godex-dev/godex/internal/domain"
)

// System writes to the OS clipboard.
type System struct{}

// Write copies text to the clipboard. Failures (headless sessions, missing
// xclip/xsel) wrap domain.ErrClipboard so callers can downgrade them.
func (System) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClipboard, err)
	}
	return nil
}

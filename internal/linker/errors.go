package linker

import (
	"errors"
	"fmt"
)

// ErrMissingSource is returned when an operation's source directory is
// absent. Fatal for the single operation.
var ErrMissingSource = errors.New("source directory does not exist")

// UntrackedConflictError is returned when a destination already exists on
// disk but the manifest has no entry for the package key. Injecting over
// it would risk overwriting content the tool does not own.
type UntrackedConflictError struct {
	Key         string
	Destination string
}

func (e *UntrackedConflictError) Error() string {
	return fmt.Sprintf("destination %s exists but is not tracked by the manifest (key %s): refusing to overwrite", e.Destination, e.Key)
}

// UnlinkedFileError aborts an eject before any mutation: a destination
// file either has no source counterpart or diverged from it, so deleting
// the destination would lose changes.
type UnlinkedFileError struct {
	Path string
}

func (e *UnlinkedFileError) Error() string {
	return fmt.Sprintf("unlinked file %s: ejecting would lose changes", e.Path)
}

// BrokenLink reports a destination file that diverged from its source
// under the active link mode's identity check. Non-fatal: surfaced as a
// warning unless the relink override turns it into a recovery step.
type BrokenLink struct {
	Source      string
	Destination string
}

package platform

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// LinkMode selects how a source file is mirrored into a destination and
// how an existing destination file is checked for identity with its source.
type LinkMode string

const (
	// LinkModeHard mirrors files as hard links; identity is same-inode.
	LinkModeHard LinkMode = "hard"
	// LinkModeSym mirrors files as symbolic links; identity is the link
	// resolving to the source path.
	LinkModeSym LinkMode = "sym"
	// LinkModeCopy mirrors files as byte-for-byte copies; identity is
	// byte equality.
	LinkModeCopy LinkMode = "copy"
)

// ParseLinkMode validates a link mode string from config or flags.
func ParseLinkMode(s string) (LinkMode, error) {
	switch LinkMode(s) {
	case LinkModeHard, LinkModeSym, LinkModeCopy:
		return LinkMode(s), nil
	default:
		return "", fmt.Errorf("unknown link mode %q: expected hard, sym, or copy", s)
	}
}

// Link mirrors src to dst according to the mode. The parent directory of
// dst must already exist. An existing dst is an error; callers decide
// whether to verify or replace existing files first.
func (m LinkMode) Link(src, dst string) error {
	switch m {
	case LinkModeHard:
		return os.Link(src, dst)
	case LinkModeSym:
		abs, err := filepath.Abs(src)
		if err != nil {
			return err
		}
		return os.Symlink(abs, dst)
	case LinkModeCopy:
		return copyFile(src, dst)
	default:
		return fmt.Errorf("unknown link mode %q", string(m))
	}
}

// Same reports whether dst is still link-identical to src under the
// mode's identity check.
func (m LinkMode) Same(src, dst string) (bool, error) {
	switch m {
	case LinkModeHard:
		srcInfo, err := os.Stat(src)
		if err != nil {
			return false, err
		}
		dstInfo, err := os.Lstat(dst)
		if err != nil {
			return false, err
		}
		return os.SameFile(srcInfo, dstInfo), nil

	case LinkModeSym:
		target, err := os.Readlink(dst)
		if err != nil {
			return false, nil // not a symlink: someone replaced it
		}
		abs, err := filepath.Abs(src)
		if err != nil {
			return false, err
		}
		return target == abs, nil

	case LinkModeCopy:
		srcData, err := os.ReadFile(src)
		if err != nil {
			return false, err
		}
		dstData, err := os.ReadFile(dst)
		if err != nil {
			return false, err
		}
		return bytes.Equal(srcData, dstData), nil

	default:
		return false, fmt.Errorf("unknown link mode %q", string(m))
	}
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode())
}

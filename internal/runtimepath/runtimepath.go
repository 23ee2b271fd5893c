// Package runtimepath resolves where the daemon's control socket lives.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// SocketPath returns the control socket path, preferring XDG_RUNTIME_DIR,
// then /run/user/<uid>, then a per-user directory under the temp dir. The
// containing directory is created with owner-only permissions.
func SocketPath() (string, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		candidate := fmt.Sprintf("/run/user/%d", os.Getuid())
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			dir = candidate
		}
	}
	if dir == "" {
		dir = filepath.Join(os.TempDir(), fmt.Sprintf("slidebar-%d", os.Getuid()))
	} else {
		dir = filepath.Join(dir, "slidebar")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create runtime directory: %w", err)
	}
	return filepath.Join(dir, "slidebar.sock"), nil
}

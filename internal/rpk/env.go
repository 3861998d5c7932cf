package rpk

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables exported by the packaged-application launcher.
const (
	envPkgID   = "MLAGENT_PKG_ID"
	envResRoot = "MLAGENT_RES_ROOT"
)

// OSEnv reads the packaging context from the process environment. Launchers
// for packaged applications export the package identity and the base
// directory under which per-class resource roots are installed; ordinary
// processes have neither, which makes every payload pass through unchanged.
type OSEnv struct{}

// AppID returns the packaged-application id from MLAGENT_PKG_ID.
func (OSEnv) AppID() (string, error) {
	id := os.Getenv(envPkgID)
	if id == "" {
		return "", ErrNotPackaged
	}
	return id, nil
}

// ResourceRoot returns the installed root for resType, rooted at
// MLAGENT_RES_ROOT. The directory must exist.
func (OSEnv) ResourceRoot(resType string) (string, error) {
	base := os.Getenv(envResRoot)
	if base == "" {
		return "", fmt.Errorf("rpk: %s is not set", envResRoot)
	}
	root := filepath.Join(base, resType)
	if _, err := os.Stat(root); err != nil {
		return "", fmt.Errorf("rpk: resource root: %w", err)
	}
	return root, nil
}

// StaticEnv is a fixed environment for tests and for embedders that manage
// packaging state themselves.
type StaticEnv struct {
	ID    string            // packaged-application id; empty means not packaged
	Roots map[string]string // res_type to installed root
}

// AppID returns the configured id, or ErrNotPackaged when empty.
func (e StaticEnv) AppID() (string, error) {
	if e.ID == "" {
		return "", ErrNotPackaged
	}
	return e.ID, nil
}

// ResourceRoot returns the configured root for resType.
func (e StaticEnv) ResourceRoot(resType string) (string, error) {
	root, ok := e.Roots[resType]
	if !ok {
		return "", fmt.Errorf("rpk: no installed root for res_type %q", resType)
	}
	return root, nil
}

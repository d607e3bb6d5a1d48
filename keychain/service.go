package keychain

import (
	"os"
	"path/filepath"
	"strings"
)

// fallbackService names the namespace when the executable path is unknown.
const fallbackService = "go-keychain-store"

// DefaultService returns the base name of the running executable without
// its extension, the namespace used when none is configured.
func DefaultService() string {
	exe, err := os.Executable()
	if err != nil {
		return fallbackService
	}

	name := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fallbackService
	}
	return name
}

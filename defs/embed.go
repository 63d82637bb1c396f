package defs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml
var DefsFS embed.FS

// Load reads a definition file, preferring an on-disk copy under defs/ so
// tuning can be edited without rebuilding; the embedded copy is the fallback.
func Load(name string) ([]byte, error) {
	clean := cleanDefPath(name)
	if data, err := os.ReadFile(diskDefPath(clean)); err == nil {
		return data, nil
	}
	return DefsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	clean := cleanDefPath(name)
	info, err := os.Stat(diskDefPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanDefPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "defs/") {
		return strings.TrimPrefix(s, "defs/")
	}
	return s
}

func diskDefPath(clean string) string {
	return filepath.Join("defs", filepath.FromSlash(clean))
}

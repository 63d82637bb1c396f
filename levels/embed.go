// Package levels bundles starter level files into the binary. Levels are
// plain JSON in the same record format Ctrl+S writes, so anything here can
// be regenerated from the editor.
package levels

import "embed"

//go:embed *.json
var FS embed.FS

// Demo returns the bundled starter level, used when no level file exists on
// disk yet.
func Demo() ([]byte, error) {
	return FS.ReadFile("demo.json")
}

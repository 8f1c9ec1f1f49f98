package levels

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed catalog.yaml *.json scripts/*.tengo
var LevelsFS embed.FS

// DiskDir is checked before the embedded files so edits on disk win while
// developing.
var DiskDir = "levels"

// Load reads a catalog, level or script file by levels-relative path.
func Load(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return LevelsFS.ReadFile(clean)
}

// LoadScript reads a level script from scripts/.
func LoadScript(name string) ([]byte, error) {
	return Load(cleanScriptPath(name))
}

func cleanLevelPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	s := cleanLevelPath(path)
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(DiskDir, filepath.FromSlash(clean))
}

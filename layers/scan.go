package layers

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// InvalidManifest is a manifest that could not be read or parsed
type InvalidManifest struct {
	Path  string
	Error string
}

// Result is the outcome of a Scan
type Result struct {
	Directories []Directory
	Manifests   []Manifest
	Invalid     []InvalidManifest
}

// Scan reads every *.json manifest of the given paths. Missing
// directories are skipped, broken manifests are reported in Invalid.
// Manifests are ordered by name then path.
func Scan(paths Paths) Result {
	result := Result{
		Directories: paths.Directories,
	}
	seen := make(map[string]bool)

	for _, dir := range paths.Directories {
		for _, file := range manifestFiles(dir.Path) {
			key := file
			if abs, err := filepath.Abs(file); err == nil {
				key = abs
			}
			if seen[key] {
				continue
			}
			seen[key] = true

			data, err := ioutil.ReadFile(file)
			if err != nil {
				result.Invalid = append(result.Invalid, InvalidManifest{Path: file, Error: err.Error()})
				continue
			}
			manifests, err := ParseManifest(file, data, dir.Implicit)
			if err != nil {
				result.Invalid = append(result.Invalid, InvalidManifest{Path: file, Error: err.Error()})
				continue
			}
			result.Manifests = append(result.Manifests, manifests...)
		}
	}

	sort.SliceStable(result.Manifests, func(i, j int) bool {
		a, b := result.Manifests[i], result.Manifests[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Path < b.Path
	})
	log.WithFields(log.Fields{
		"directories": len(result.Directories),
		"manifests":   len(result.Manifests),
		"invalid":     len(result.Invalid),
	}).Debug("layer manifests scanned")
	return result
}

func manifestFiles(path string) []string {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if !info.IsDir() {
		return []string{path}
	}

	entries, err := ioutil.ReadDir(path)
	if err != nil {
		log.WithError(err).WithField("directory", path).Warn("layer directory unreadable")
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	return files
}
